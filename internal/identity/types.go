// Package identity resolves user IDs to display identities with a warm cache.
package identity

import "context"

// Identity is the resolved (or unresolved) display identity for a user ID.
// Resolved=false is a valid terminal state: the user left the guild or the
// fetch failed, and only the bare ID is available.
type Identity struct {
	UserID        string
	Username      string
	Discriminator string
	AvatarURL     string
	Nickname      string
	Resolved      bool
}

// MemberFetcher fetches a guild member's identity over the platform REST API.
type MemberFetcher interface {
	FetchMember(ctx context.Context, guildID, userID string) (Identity, error)
}

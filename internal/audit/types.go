// Package audit correlates observed deletions with the platform's audit trail.
package audit

import (
	"context"
	"time"
)

// Entry is one message-deletion entry from the guild audit log.
type Entry struct {
	ID           string
	ChannelID    string
	TargetUserID string
	ActorID      string
	CreatedAt    time.Time
}

// Feed polls the guild audit log for recent message-deletion entries, newest
// first. The trail is written asynchronously and offers no push notification.
type Feed interface {
	RecentMessageDeletions(ctx context.Context, guildID string, limit int) ([]Entry, error)
}

// Attribution is the outcome of a correlation attempt. When Attributed is
// false the deletion is presumed to be by the original author.
type Attribution struct {
	Attributed bool
	DeleterID  string
}

// Unattributed is the degraded outcome used for misses and fetch failures.
var Unattributed = Attribution{}

package gateway

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/chronicle-bot/chronicle/internal/audit"
	"github.com/chronicle-bot/chronicle/internal/identity"
)

// MemberFetcher resolves guild members over the Discord REST API.
type MemberFetcher struct {
	session *discordgo.Session
}

// NewMemberFetcher creates a REST member fetcher.
func NewMemberFetcher(session *discordgo.Session) *MemberFetcher {
	return &MemberFetcher{session: session}
}

// FetchMember fetches a member and maps it to a display identity.
func (f *MemberFetcher) FetchMember(ctx context.Context, guildID, userID string) (identity.Identity, error) {
	member, err := f.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return identity.Identity{}, fmt.Errorf("fetch member %s: %w", userID, err)
	}
	if member.User == nil {
		return identity.Identity{}, fmt.Errorf("member %s has no user payload", userID)
	}
	return identity.Identity{
		UserID:        member.User.ID,
		Username:      member.User.Username,
		Discriminator: member.User.Discriminator,
		AvatarURL:     member.User.AvatarURL(""),
		Nickname:      member.Nick,
	}, nil
}

// AuditFeed polls the guild audit log for message-deletion entries.
type AuditFeed struct {
	session *discordgo.Session
}

// NewAuditFeed creates an audit log feed.
func NewAuditFeed(session *discordgo.Session) *AuditFeed {
	return &AuditFeed{session: session}
}

// RecentMessageDeletions returns the newest message-delete audit entries.
func (f *AuditFeed) RecentMessageDeletions(ctx context.Context, guildID string, limit int) ([]audit.Entry, error) {
	log, err := f.session.GuildAuditLog(guildID, "", "", int(discordgo.AuditLogActionMessageDelete), limit, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch audit log for guild %s: %w", guildID, err)
	}

	entries := make([]audit.Entry, 0, len(log.AuditLogEntries))
	for _, raw := range log.AuditLogEntries {
		entry := audit.Entry{
			ID:           raw.ID,
			TargetUserID: raw.TargetID,
			ActorID:      raw.UserID,
		}
		if raw.Options != nil {
			entry.ChannelID = raw.Options.ChannelID
		}
		// the entry's snowflake carries its creation time
		if created, err := discordgo.SnowflakeTimestamp(raw.ID); err == nil {
			entry.CreatedAt = created
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

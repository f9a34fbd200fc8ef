// Package guilds serves per-guild logging settings with a process-wide cache.
package guilds

import "context"

// Settings holds the deletion-logging configuration for one guild.
type Settings struct {
	GuildID           string
	WebhookID         string
	WebhookToken      string
	IgnoredChannelIDs []string
}

// IsChannelIgnored reports whether deletion logging is disabled for the channel.
func (s Settings) IsChannelIgnored(channelID string) bool {
	for _, id := range s.IgnoredChannelIDs {
		if id == channelID {
			return true
		}
	}
	return false
}

// HasWebhook reports whether a delivery webhook is configured.
func (s Settings) HasWebhook() bool {
	return s.WebhookID != "" && s.WebhookToken != ""
}

// Source loads settings for a guild. A guild with no stored row yields default
// settings and found=false.
type Source interface {
	Get(ctx context.Context, guildID string) (Settings, bool, error)
	Upsert(ctx context.Context, settings Settings) error
}

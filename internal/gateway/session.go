// Package gateway wires the Discord session and event handlers to the pipeline.
package gateway

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/chronicle-bot/chronicle/internal/config"
)

// NewSession creates the gateway session with the intents this bot needs:
// guild metadata for channel names, message events with content for the
// write-behind buffer, and member chunks for identity resolution.
func NewSession(cfg config.DiscordConfig) (*discordgo.Session, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("discord bot_token is required")
	}
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent
	return session, nil
}

package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/chronicle-bot/chronicle/internal/guilds"
)

// WebhookDispatcher delivers notifications through each guild's configured
// log webhook. Guilds without a webhook drop the notification silently.
type WebhookDispatcher struct {
	session  *discordgo.Session
	settings *guilds.Service
	logger   *slog.Logger
}

// NewWebhookDispatcher creates a webhook-backed dispatcher.
func NewWebhookDispatcher(log *slog.Logger, session *discordgo.Session, settings *guilds.Service) *WebhookDispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookDispatcher{
		session:  session,
		settings: settings,
		logger:   log.With(slog.String("service", "dispatch")),
	}
}

// Dispatch executes the guild's webhook with the notification panels.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, n Notification) error {
	settings, err := d.settings.Get(ctx, n.GuildID)
	if err != nil {
		return fmt.Errorf("load webhook settings: %w", err)
	}
	if !settings.HasWebhook() {
		d.logger.Debug("no webhook configured, dropping notification",
			slog.String("guild_id", n.GuildID),
			slog.String("event", n.EventName))
		return nil
	}

	params := &discordgo.WebhookParams{Embeds: PanelsToEmbeds(n.Panels)}
	if _, err := d.session.WebhookExecute(settings.WebhookID, settings.WebhookToken, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("execute webhook for guild %s: %w", n.GuildID, err)
	}
	return nil
}

// PanelsToEmbeds converts notification panels to Discord embeds.
func PanelsToEmbeds(panels []Panel) []*discordgo.MessageEmbed {
	embeds := make([]*discordgo.MessageEmbed, 0, len(panels))
	for _, panel := range panels {
		embed := &discordgo.MessageEmbed{
			Description: panel.Description,
			Color:       panel.Color,
			URL:         panel.URL,
		}
		if panel.Author != nil {
			embed.Author = &discordgo.MessageEmbedAuthor{
				Name:    panel.Author.Name,
				IconURL: panel.Author.IconURL,
			}
		}
		for _, field := range panel.Fields {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  field.Name,
				Value: field.Value,
			})
		}
		if panel.ImageURL != "" {
			embed.Image = &discordgo.MessageEmbedImage{URL: panel.ImageURL}
		}
		embeds = append(embeds, embed)
	}
	return embeds
}

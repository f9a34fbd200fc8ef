package gateway

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/chronicle-bot/chronicle/internal/deletion"
	"github.com/chronicle-bot/chronicle/internal/guilds"
	"github.com/chronicle-bot/chronicle/internal/identity"
	"github.com/chronicle-bot/chronicle/internal/messages"
)

// Handlers binds gateway events to the recording and deletion services.
type Handlers struct {
	logger   *slog.Logger
	batcher  *messages.Batcher
	pipeline *deletion.Pipeline
	guilds   *guilds.Service
	actors   *identity.Resolver
}

// NewHandlers creates the gateway event handlers.
func NewHandlers(log *slog.Logger, batcher *messages.Batcher, pipeline *deletion.Pipeline, guildService *guilds.Service, actors *identity.Resolver) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{
		logger:   log.With(slog.String("service", "gateway")),
		batcher:  batcher,
		pipeline: pipeline,
		guilds:   guildService,
		actors:   actors,
	}
}

// Register attaches all handlers to the session.
func (h *Handlers) Register(session *discordgo.Session) {
	session.AddHandler(h.onGuildCreate)
	session.AddHandler(h.onMessageCreate)
	session.AddHandler(h.onMessageDelete)
}

func (h *Handlers) onGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.guilds.Ensure(ctx, g.ID); err != nil {
		h.logger.Warn("guild settings ensure failed",
			slog.String("guild_id", g.ID),
			slog.Any("error", err))
	}
}

func (h *Handlers) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}

	id := identity.Identity{
		UserID:        m.Author.ID,
		Username:      m.Author.Username,
		Discriminator: m.Author.Discriminator,
		AvatarURL:     m.Author.AvatarURL(""),
	}
	if m.Member != nil {
		id.Nickname = m.Member.Nick
	}
	h.actors.Prime(m.GuildID, id)

	h.batcher.Add(context.Background(), messages.Record{
		ID:            m.ID,
		AuthorID:      m.Author.ID,
		ChannelID:     m.ChannelID,
		GuildID:       m.GuildID,
		Content:       m.Content,
		AttachmentB64: EncodeAttachments(m.Attachments),
		Timestamp:     m.Timestamp,
	})
}

func (h *Handlers) onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	ev := deletion.Event{
		MessageID:   m.ID,
		ChannelID:   m.ChannelID,
		ChannelName: channelName(s, m.ChannelID),
		GuildID:     m.GuildID,
	}
	// each deletion runs its own pipeline; the settle delay must not block the gateway
	go h.pipeline.HandleDelete(context.Background(), ev)
}

func channelName(s *discordgo.Session, channelID string) string {
	if s == nil || s.State == nil {
		return ""
	}
	channel, err := s.State.Channel(channelID)
	if err != nil {
		return ""
	}
	return channel.Name
}

// EncodeAttachments packs attachment URLs as pipe-separated base64url, the
// transport encoding the store keeps them in.
func EncodeAttachments(attachments []*discordgo.MessageAttachment) string {
	if len(attachments) == 0 {
		return ""
	}
	encoded := make([]string, 0, len(attachments))
	for _, attachment := range attachments {
		if attachment == nil || attachment.URL == "" {
			continue
		}
		encoded = append(encoded, base64.RawURLEncoding.EncodeToString([]byte(attachment.URL)))
	}
	return strings.Join(encoded, "|")
}

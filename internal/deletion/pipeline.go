// Package deletion runs the per-event pipeline: resolve the deleted message,
// attribute the deletion, assemble the notification, and dispatch it.
package deletion

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chronicle-bot/chronicle/internal/audit"
	"github.com/chronicle-bot/chronicle/internal/guilds"
	"github.com/chronicle-bot/chronicle/internal/identity"
	"github.com/chronicle-bot/chronicle/internal/messages"
	"github.com/chronicle-bot/chronicle/internal/notify"
)

// Event is one observed message deletion. The message itself is already gone
// from the platform by the time the pipeline runs.
type Event struct {
	MessageID   string
	ChannelID   string
	ChannelName string
	GuildID     string
}

// Buffer is the volatile write-behind tier of the message cache.
type Buffer interface {
	Get(id string) (messages.Record, bool)
	Remove(id string)
}

// Store is the durable tier of the message cache.
type Store interface {
	Get(ctx context.Context, id string) (messages.Record, bool, error)
	Delete(ctx context.Context, id string) error
}

// SettingsSource exposes the cached per-guild settings.
type SettingsSource interface {
	Get(ctx context.Context, guildID string) (guilds.Settings, error)
}

// ActorResolver maps an author ID to a display identity.
type ActorResolver interface {
	Resolve(ctx context.Context, guildID, userID string) identity.Identity
}

// Correlator attributes the deletion via the guild audit trail.
type Correlator interface {
	Attribute(ctx context.Context, guildID, channelID, authorID string) audit.Attribution
}

// Pipeline owns one deletion event end to end. Invocations are independent;
// nothing here is shared mutable state between concurrent events.
type Pipeline struct {
	buffer     Buffer
	store      Store
	settings   SettingsSource
	actors     ActorResolver
	correlator Correlator
	assembler  *notify.Assembler
	dispatcher notify.Dispatcher
	logger     *slog.Logger
}

// NewPipeline wires the deletion pipeline.
func NewPipeline(
	log *slog.Logger,
	buffer Buffer,
	store Store,
	settings SettingsSource,
	actors ActorResolver,
	correlator Correlator,
	assembler *notify.Assembler,
	dispatcher notify.Dispatcher,
) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		buffer:     buffer,
		store:      store,
		settings:   settings,
		actors:     actors,
		correlator: correlator,
		assembler:  assembler,
		dispatcher: dispatcher,
		logger:     log.With(slog.String("service", "deletion")),
	}
}

// HandleDelete processes one deletion event. Every failure past the cache
// lookup degrades the notification instead of aborting it; a cache miss on
// both tiers drops the event silently.
func (p *Pipeline) HandleDelete(ctx context.Context, ev Event) {
	if ev.GuildID == "" {
		return
	}
	log := p.logger.With(
		slog.String("event_id", uuid.NewString()),
		slog.String("message_id", ev.MessageID),
		slog.String("guild_id", ev.GuildID),
	)

	settings, err := p.settings.Get(ctx, ev.GuildID)
	if err != nil {
		log.Warn("guild settings unavailable, proceeding unfiltered", slog.Any("error", err))
	} else if settings.IsChannelIgnored(ev.ChannelID) {
		return
	}

	rec, ok := p.resolveRecord(ctx, log, ev.MessageID)
	if !ok {
		return
	}

	// purge is fire-and-forget: the deletion is now observed, durable storage
	// should not retain it, and a purge failure must not block the notification
	if err := p.store.Delete(ctx, ev.MessageID); err != nil {
		log.Warn("purge failed", slog.Any("error", err))
	}
	p.buffer.Remove(ev.MessageID)

	attrCh := make(chan audit.Attribution, 1)
	go func() {
		attrCh <- p.correlator.Attribute(ctx, ev.GuildID, ev.ChannelID, rec.AuthorID)
	}()
	actor := p.actors.Resolve(ctx, ev.GuildID, rec.AuthorID)
	attr := <-attrCh

	n := p.assembler.Assemble(rec, ev.ChannelName, actor, attr)
	if err := p.dispatcher.Dispatch(ctx, n); err != nil {
		log.Warn("dispatch failed", slog.Any("error", err))
	}
}

// resolveRecord looks the deleted message up in the volatile buffer first,
// then the persistent store.
func (p *Pipeline) resolveRecord(ctx context.Context, log *slog.Logger, messageID string) (messages.Record, bool) {
	if rec, ok := p.buffer.Get(messageID); ok {
		return rec, true
	}
	rec, ok, err := p.store.Get(ctx, messageID)
	if err != nil {
		log.Warn("store lookup failed", slog.Any("error", err))
		return messages.Record{}, false
	}
	return rec, ok
}

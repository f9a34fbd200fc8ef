package modules

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"github.com/chronicle-bot/chronicle/internal/audit"
	"github.com/chronicle-bot/chronicle/internal/config"
	"github.com/chronicle-bot/chronicle/internal/deletion"
	"github.com/chronicle-bot/chronicle/internal/gateway"
	"github.com/chronicle-bot/chronicle/internal/guilds"
	"github.com/chronicle-bot/chronicle/internal/identity"
	"github.com/chronicle-bot/chronicle/internal/messages"
	"github.com/chronicle-bot/chronicle/internal/notify"
)

var DomainModule = fx.Module(
	"domain",
	fx.Provide(
		messages.NewStore,
		provideBatcher,
		provideSweeper,
		provideGuildService,
		provideActorResolver,
		provideCorrelator,
		notify.NewAssembler,
		provideDispatcher,
		providePipeline,
	),
)

// ---------------------------------------------------------------------------
// domain service providers (interface adapters)
// ---------------------------------------------------------------------------

func provideBatcher(log *slog.Logger, store *messages.Store, cfg config.Config) *messages.Batcher {
	return messages.NewBatcher(log, store, cfg.Batch)
}

func provideSweeper(log *slog.Logger, store *messages.Store, cfg config.Config) *messages.Sweeper {
	return messages.NewSweeper(log, store, cfg.Batch)
}

func provideGuildService(log *slog.Logger, pool *pgxpool.Pool) *guilds.Service {
	return guilds.NewService(log, guilds.NewStore(log, pool))
}

func provideActorResolver(log *slog.Logger, fetcher *gateway.MemberFetcher) *identity.Resolver {
	return identity.NewResolver(log, fetcher)
}

func provideCorrelator(log *slog.Logger, feed *gateway.AuditFeed, cfg config.Config) *audit.Correlator {
	return audit.NewCorrelator(log, feed, cfg.Audit)
}

func provideDispatcher(log *slog.Logger, session *discordgo.Session, guildService *guilds.Service) notify.Dispatcher {
	return notify.NewWebhookDispatcher(log, session, guildService)
}

func providePipeline(
	log *slog.Logger,
	batcher *messages.Batcher,
	store *messages.Store,
	guildService *guilds.Service,
	actors *identity.Resolver,
	correlator *audit.Correlator,
	assembler *notify.Assembler,
	dispatcher notify.Dispatcher,
) *deletion.Pipeline {
	return deletion.NewPipeline(log, batcher, store, guildService, actors, correlator, assembler, dispatcher)
}

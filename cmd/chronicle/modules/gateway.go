package modules

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/fx"

	"github.com/chronicle-bot/chronicle/internal/config"
	"github.com/chronicle-bot/chronicle/internal/gateway"
	"github.com/chronicle-bot/chronicle/internal/messages"
)

var GatewayModule = fx.Module(
	"gateway",
	fx.Provide(
		provideSession,
		gateway.NewMemberFetcher,
		gateway.NewAuditFeed,
		gateway.NewHandlers,
	),
	fx.Invoke(runGateway),
)

func provideSession(cfg config.Config) (*discordgo.Session, error) {
	return gateway.NewSession(cfg.Discord)
}

// runGateway registers the handlers and ties the session, batcher, and
// sweeper to the fx lifecycle.
func runGateway(
	lc fx.Lifecycle,
	session *discordgo.Session,
	handlers *gateway.Handlers,
	batcher *messages.Batcher,
	sweeper *messages.Sweeper,
) {
	handlers.Register(session)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := batcher.Start(); err != nil {
				return fmt.Errorf("start batcher: %w", err)
			}
			if err := sweeper.Start(); err != nil {
				return fmt.Errorf("start sweeper: %w", err)
			}
			if err := session.Open(); err != nil {
				return fmt.Errorf("open gateway: %w", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := session.Close(); err != nil {
				return fmt.Errorf("close gateway: %w", err)
			}
			sweeper.Stop()
			return batcher.Stop(ctx)
		},
	})
}

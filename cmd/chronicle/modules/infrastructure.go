package modules

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"github.com/chronicle-bot/chronicle/internal/config"
	"github.com/chronicle-bot/chronicle/internal/db"
	"github.com/chronicle-bot/chronicle/internal/logger"
)

var InfraModule = fx.Module(
	"infra",
	fx.Provide(
		ProvideConfig,
		ProvideLogger,
		provideDBConn,
	),
)

// ProvideConfig loads the TOML config from CONFIG_PATH or the default path.
func ProvideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// ProvideLogger initializes the global structured logger from config.
func ProvideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			conn.Close()
			return nil
		},
	})
	return conn, nil
}

package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/chronicle-bot/chronicle/cmd/chronicle/modules"
	migrations "github.com/chronicle-bot/chronicle/db"
	"github.com/chronicle-bot/chronicle/internal/db"
	"github.com/chronicle-bot/chronicle/internal/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fx.New(
		modules.InfraModule,
		modules.DomainModule,
		modules.GatewayModule,
		fx.Invoke(logStartup),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			l := &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
			l.UseLogLevel(slog.LevelDebug)
			return l
		}),
	).Run()
}

func logStartup(logger *slog.Logger) {
	logger.Info("chronicle starting", slog.String("version", version.GetInfo()))
}

func runMigrate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: chronicle migrate <up|down|version|force N>")
	}
	cfg, err := modules.ProvideConfig()
	if err != nil {
		return err
	}
	logger := modules.ProvideLogger(cfg)

	migrationsFS, err := fs.Sub(migrations.MigrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	return db.RunMigrate(logger, cfg.Postgres, migrationsFS, args[0], args[1:])
}

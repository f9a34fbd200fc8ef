package guilds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	dbpkg "github.com/chronicle-bot/chronicle/internal/db"
)

// Store reads and writes guild settings rows in PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a guild settings store.
func NewStore(log *slog.Logger, pool *pgxpool.Pool) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		pool:   pool,
		logger: log.With(slog.String("service", "guilds")),
	}
}

// Get returns the stored settings for guildID. A guild with no row yields
// default settings and found=false.
func (s *Store) Get(ctx context.Context, guildID string) (Settings, bool, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT guild_id, webhook_id, webhook_token, ignored_channel_ids
		 FROM guild_settings WHERE guild_id = $1`, guildID)

	var settings Settings
	var webhookID, webhookToken pgtype.Text
	if err := row.Scan(&settings.GuildID, &webhookID, &webhookToken, &settings.IgnoredChannelIDs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Settings{GuildID: guildID}, false, nil
		}
		return Settings{}, false, fmt.Errorf("get guild settings %s: %w", guildID, err)
	}
	settings.WebhookID = dbpkg.TextToString(webhookID)
	settings.WebhookToken = dbpkg.TextToString(webhookToken)
	return settings, true, nil
}

// Upsert writes the settings row for a guild.
func (s *Store) Upsert(ctx context.Context, settings Settings) error {
	ignored := settings.IgnoredChannelIDs
	if ignored == nil {
		ignored = []string{}
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO guild_settings (guild_id, webhook_id, webhook_token, ignored_channel_ids)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (guild_id) DO UPDATE SET
		   webhook_id = EXCLUDED.webhook_id,
		   webhook_token = EXCLUDED.webhook_token,
		   ignored_channel_ids = EXCLUDED.ignored_channel_ids`,
		settings.GuildID,
		dbpkg.TextFromString(settings.WebhookID),
		dbpkg.TextFromString(settings.WebhookToken),
		ignored,
	)
	if err != nil {
		return fmt.Errorf("upsert guild settings %s: %w", settings.GuildID, err)
	}
	return nil
}

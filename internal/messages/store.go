package messages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	dbpkg "github.com/chronicle-bot/chronicle/internal/db"
)

// Store reads and writes message snapshots in PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a message store.
func NewStore(log *slog.Logger, pool *pgxpool.Pool) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		pool:   pool,
		logger: log.With(slog.String("service", "messages")),
	}
}

// Get returns the stored snapshot for id, or found=false when absent.
func (s *Store) Get(ctx context.Context, id string) (Record, bool, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, author_id, channel_id, guild_id, content, attachment_b64, ts
		 FROM messages WHERE id = $1`, id)

	var rec Record
	var content, attachments pgtype.Text
	if err := row.Scan(&rec.ID, &rec.AuthorID, &rec.ChannelID, &rec.GuildID, &content, &attachments, &rec.Timestamp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("get message %s: %w", id, err)
	}
	rec.Content = dbpkg.TextToString(content)
	rec.AttachmentB64 = dbpkg.TextToString(attachments)
	return rec, true, nil
}

// Delete removes the stored snapshot for id. Deleting an absent row is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete message %s: %w", id, err)
	}
	return nil
}

// InsertBatch writes records in a single pgx batch, upserting on conflict so a
// flush racing a re-observed message stays idempotent.
func (s *Store) InsertBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO messages (id, author_id, channel_id, guild_id, content, attachment_b64, ts)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO UPDATE SET content = EXCLUDED.content, attachment_b64 = EXCLUDED.attachment_b64`,
			rec.ID, rec.AuthorID, rec.ChannelID, rec.GuildID,
			dbpkg.TextFromString(rec.Content), dbpkg.TextFromString(rec.AttachmentB64), rec.Timestamp,
		)
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert message batch: %w", err)
		}
	}
	return nil
}

// DeleteOlderThan removes snapshots created before cutoff and reports how many rows went away.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM messages WHERE ts < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep messages before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return tag.RowsAffected(), nil
}

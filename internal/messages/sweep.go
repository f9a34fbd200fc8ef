package messages

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/chronicle-bot/chronicle/internal/config"
)

// Sweeper periodically deletes stored snapshots past the retention window.
type Sweeper struct {
	store     *Store
	logger    *slog.Logger
	retention time.Duration
	spec      string
	cron      *cron.Cron
}

// NewSweeper creates a retention sweeper over the store.
func NewSweeper(log *slog.Logger, store *Store, cfg config.BatchConfig) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{
		store:     store,
		logger:    log.With(slog.String("service", "sweeper")),
		retention: cfg.Retention(),
		spec:      cfg.SweepSpec,
		cron:      cron.New(),
	}
}

// Start schedules the sweep.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.sweep); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", s.spec, err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)
	removed, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Warn("retention sweep failed", slog.Any("error", err))
		return
	}
	if removed > 0 {
		s.logger.Info("retention sweep complete", slog.Int64("removed", removed))
	}
}

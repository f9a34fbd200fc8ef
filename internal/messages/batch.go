package messages

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/chronicle-bot/chronicle/internal/config"
)

// Batcher is the write-behind buffer in front of the store. New messages land
// here first and are flushed to PostgreSQL on an interval or when the buffer
// fills up, so a deletion observed moments after creation can still find the
// snapshot without a round trip to the database.
type Batcher struct {
	logger   *slog.Logger
	flusher  Flusher
	maxSize  int
	interval time.Duration

	mu      sync.Mutex
	pending map[string]Record
	order   []string

	cron  *cron.Cron
	entry cron.EntryID
}

// NewBatcher creates a write-behind buffer flushing into flusher.
func NewBatcher(log *slog.Logger, flusher Flusher, cfg config.BatchConfig) *Batcher {
	if log == nil {
		log = slog.Default()
	}
	return &Batcher{
		logger:   log.With(slog.String("service", "batcher")),
		flusher:  flusher,
		maxSize:  cfg.FlushBatchSize,
		interval: cfg.FlushInterval(),
		pending:  map[string]Record{},
		cron:     cron.New(),
	}
}

// Start schedules the periodic flush.
func (b *Batcher) Start() error {
	spec := fmt.Sprintf("@every %s", b.interval)
	entry, err := b.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := b.Flush(ctx); err != nil {
			b.logger.Warn("periodic flush failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule flush: %w", err)
	}
	b.entry = entry
	b.cron.Start()
	return nil
}

// Stop halts the schedule and flushes whatever is still buffered.
func (b *Batcher) Stop(ctx context.Context) error {
	b.cron.Stop()
	return b.Flush(ctx)
}

// Add buffers a record, flushing synchronously once the buffer is full.
func (b *Batcher) Add(ctx context.Context, rec Record) {
	b.mu.Lock()
	if _, exists := b.pending[rec.ID]; !exists {
		b.order = append(b.order, rec.ID)
	}
	b.pending[rec.ID] = rec
	full := len(b.pending) >= b.maxSize
	b.mu.Unlock()

	if full {
		if err := b.Flush(ctx); err != nil {
			b.logger.Warn("full-buffer flush failed", slog.Any("error", err))
		}
	}
}

// Get returns the buffered record for id without removing it.
func (b *Batcher) Get(id string) (Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.pending[id]
	return rec, ok
}

// Remove drops a buffered record, keeping a purged message from being flushed
// back into the store afterwards. Removing an absent id is a no-op.
func (b *Batcher) Remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.pending[id]; !ok {
		return
	}
	delete(b.pending, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Flush writes the buffered records to the store in arrival order. On failure
// the records are restored so the next interval retries them.
func (b *Batcher) Flush(ctx context.Context) error {
	b.mu.Lock()
	if len(b.pending) == 0 {
		b.mu.Unlock()
		return nil
	}
	records := make([]Record, 0, len(b.order))
	for _, id := range b.order {
		records = append(records, b.pending[id])
	}
	b.pending = map[string]Record{}
	b.order = nil
	b.mu.Unlock()

	if err := b.flusher.InsertBatch(ctx, records); err != nil {
		b.mu.Lock()
		for _, rec := range records {
			if _, exists := b.pending[rec.ID]; !exists {
				b.order = append(b.order, rec.ID)
				b.pending[rec.ID] = rec
			}
		}
		b.mu.Unlock()
		return err
	}
	b.logger.Debug("flushed message batch", slog.Int("count", len(records)))
	return nil
}

// Len reports how many records are currently buffered.
func (b *Batcher) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

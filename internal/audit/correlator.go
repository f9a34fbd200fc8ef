package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/chronicle-bot/chronicle/internal/config"
)

// Correlator attributes a deletion to its acting user by polling the audit
// log after a settle delay. Attribution is best-effort: a missed match is
// acceptable, a wrong match is not, so entries older than the freshness gate
// are rejected even when channel and target line up.
type Correlator struct {
	feed        Feed
	logger      *slog.Logger
	settleDelay time.Duration
	freshness   time.Duration
	now         func() time.Time
}

// NewCorrelator creates a correlator with the configured settle delay and freshness gate.
func NewCorrelator(log *slog.Logger, feed Feed, cfg config.AuditConfig) *Correlator {
	if log == nil {
		log = slog.Default()
	}
	return &Correlator{
		feed:        feed,
		logger:      log.With(slog.String("service", "audit")),
		settleDelay: cfg.SettleDelay(),
		freshness:   cfg.FreshnessGate(),
		now:         time.Now,
	}
}

// Attribute waits for the audit-log write to land, fetches the most recent
// message-deletion entry, and accepts it only when channel and target match
// and the entry is fresh. Every failure degrades to Unattributed.
func (c *Correlator) Attribute(ctx context.Context, guildID, channelID, authorID string) Attribution {
	if err := c.settle(ctx); err != nil {
		return Unattributed
	}

	entries, err := c.feed.RecentMessageDeletions(ctx, guildID, 1)
	if err != nil {
		c.logger.Warn("audit log fetch failed",
			slog.String("guild_id", guildID),
			slog.Any("error", err))
		return Unattributed
	}

	for _, entry := range entries {
		if entry.ChannelID != channelID || entry.TargetUserID != authorID {
			continue
		}
		age := c.now().Sub(entry.CreatedAt)
		if age >= c.freshness {
			// stale entry: an older deletion by the same author in the same channel
			c.logger.Debug("audit entry too old",
				slog.String("entry_id", entry.ID),
				slog.Duration("age", age))
			continue
		}
		return Attribution{Attributed: true, DeleterID: entry.ActorID}
	}
	return Unattributed
}

// settle suspends until the settle delay elapses or ctx is cancelled.
func (c *Correlator) settle(ctx context.Context) error {
	if c.settleDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.settleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package audit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/chronicle-bot/chronicle/internal/config"
)

type fakeFeed struct {
	entries []Entry
	err     error
	calls   int
}

func (f *fakeFeed) RecentMessageDeletions(_ context.Context, _ string, _ int) ([]Entry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func newTestCorrelator(feed Feed) *Correlator {
	// settle_delay 0 is clamped to the default by config; build directly for tests
	c := NewCorrelator(nil, feed, config.AuditConfig{FreshnessSeconds: 10})
	c.settleDelay = 0
	return c
}

func TestAttributeFreshMatch(t *testing.T) {
	now := time.Now()
	feed := &fakeFeed{entries: []Entry{{
		ID:           "a1",
		ChannelID:    "c1",
		TargetUserID: "u1",
		ActorID:      "u2",
		CreatedAt:    now.Add(-9999 * time.Millisecond),
	}}}
	c := newTestCorrelator(feed)
	c.now = func() time.Time { return now }

	got := c.Attribute(context.Background(), "g1", "c1", "u1")
	if !got.Attributed || got.DeleterID != "u2" {
		t.Fatalf("expected attribution to u2, got %+v", got)
	}
}

func TestAttributeStaleEntry(t *testing.T) {
	now := time.Now()
	feed := &fakeFeed{entries: []Entry{{
		ID:           "a1",
		ChannelID:    "c1",
		TargetUserID: "u1",
		ActorID:      "u2",
		CreatedAt:    now.Add(-10001 * time.Millisecond),
	}}}
	c := newTestCorrelator(feed)
	c.now = func() time.Time { return now }

	if got := c.Attribute(context.Background(), "g1", "c1", "u1"); got.Attributed {
		t.Fatalf("expected unattributed for stale entry, got %+v", got)
	}
}

func TestAttributeMismatch(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name  string
		entry Entry
	}{
		{name: "wrong channel", entry: Entry{ChannelID: "c2", TargetUserID: "u1", ActorID: "u2", CreatedAt: now}},
		{name: "wrong target", entry: Entry{ChannelID: "c1", TargetUserID: "u9", ActorID: "u2", CreatedAt: now}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCorrelator(&fakeFeed{entries: []Entry{tc.entry}})
			c.now = func() time.Time { return now }
			if got := c.Attribute(context.Background(), "g1", "c1", "u1"); got.Attributed {
				t.Fatalf("expected unattributed, got %+v", got)
			}
		})
	}
}

func TestAttributeFetchFailure(t *testing.T) {
	c := newTestCorrelator(&fakeFeed{err: fmt.Errorf("network error")})
	if got := c.Attribute(context.Background(), "g1", "c1", "u1"); got.Attributed {
		t.Fatalf("expected unattributed on fetch failure, got %+v", got)
	}
}

func TestAttributeEmptyFeed(t *testing.T) {
	c := newTestCorrelator(&fakeFeed{})
	if got := c.Attribute(context.Background(), "g1", "c1", "u1"); got.Attributed {
		t.Fatalf("expected unattributed for empty feed, got %+v", got)
	}
}

func TestAttributeCancelledDuringSettle(t *testing.T) {
	feed := &fakeFeed{entries: []Entry{{ChannelID: "c1", TargetUserID: "u1", ActorID: "u2", CreatedAt: time.Now()}}}
	c := NewCorrelator(nil, feed, config.AuditConfig{SettleDelaySeconds: 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := c.Attribute(ctx, "g1", "c1", "u1"); got.Attributed {
		t.Fatalf("expected unattributed on cancellation, got %+v", got)
	}
	if feed.calls != 0 {
		t.Fatalf("feed should not be polled after cancellation, got %d calls", feed.calls)
	}
}

func TestSettleWaitsConfiguredDelay(t *testing.T) {
	c := NewCorrelator(nil, &fakeFeed{}, config.AuditConfig{})
	c.settleDelay = 10 * time.Millisecond

	start := time.Now()
	if err := c.settle(context.Background()); err != nil {
		t.Fatalf("settle returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Fatalf("settle returned early after %v", elapsed)
	}
}

package guilds

import (
	"context"
	"fmt"
	"testing"
)

type fakeSource struct {
	rows    map[string]Settings
	err     error
	gets    int
	upserts int
}

func (f *fakeSource) Get(_ context.Context, guildID string) (Settings, bool, error) {
	f.gets++
	if f.err != nil {
		return Settings{}, false, f.err
	}
	row, ok := f.rows[guildID]
	if !ok {
		return Settings{GuildID: guildID}, false, nil
	}
	return row, true, nil
}

func (f *fakeSource) Upsert(_ context.Context, settings Settings) error {
	f.upserts++
	if f.rows == nil {
		f.rows = map[string]Settings{}
	}
	f.rows[settings.GuildID] = settings
	return nil
}

func TestServiceGetCachesFirstLoad(t *testing.T) {
	source := &fakeSource{rows: map[string]Settings{
		"g1": {GuildID: "g1", IgnoredChannelIDs: []string{"c9"}},
	}}
	svc := NewService(nil, source)

	for i := 0; i < 3; i++ {
		settings, err := svc.Get(context.Background(), "g1")
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if !settings.IsChannelIgnored("c9") {
			t.Fatal("expected c9 to be ignored")
		}
	}
	if source.gets != 1 {
		t.Fatalf("expected one store read, got %d", source.gets)
	}
}

func TestServiceGetPropagatesStoreError(t *testing.T) {
	source := &fakeSource{err: fmt.Errorf("db down")}
	if _, err := NewService(nil, source).Get(context.Background(), "g1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestServiceEnsureProvisionsMissingRow(t *testing.T) {
	source := &fakeSource{}
	svc := NewService(nil, source)

	if err := svc.Ensure(context.Background(), "g1"); err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	if source.upserts != 1 {
		t.Fatalf("expected one upsert, got %d", source.upserts)
	}

	// second Ensure sees the row and leaves it alone
	if err := svc.Ensure(context.Background(), "g1"); err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	if source.upserts != 1 {
		t.Fatalf("expected no second upsert, got %d", source.upserts)
	}
}

func TestServiceInvalidateForcesReload(t *testing.T) {
	source := &fakeSource{rows: map[string]Settings{"g1": {GuildID: "g1"}}}
	svc := NewService(nil, source)

	if _, err := svc.Get(context.Background(), "g1"); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	svc.Invalidate("g1")
	if _, err := svc.Get(context.Background(), "g1"); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if source.gets != 2 {
		t.Fatalf("expected reload after invalidate, got %d reads", source.gets)
	}
}

func TestIsChannelIgnored(t *testing.T) {
	settings := Settings{IgnoredChannelIDs: []string{"c1", "c2"}}
	if !settings.IsChannelIgnored("c2") {
		t.Fatal("expected c2 ignored")
	}
	if settings.IsChannelIgnored("c3") {
		t.Fatal("did not expect c3 ignored")
	}
	if (Settings{}).IsChannelIgnored("c1") {
		t.Fatal("empty settings should ignore nothing")
	}
}

func TestHasWebhook(t *testing.T) {
	if (Settings{WebhookID: "w"}).HasWebhook() {
		t.Fatal("webhook without token should not count")
	}
	if !(Settings{WebhookID: "w", WebhookToken: "t"}).HasWebhook() {
		t.Fatal("expected webhook to be configured")
	}
}

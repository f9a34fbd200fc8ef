package guilds

import (
	"context"
	"log/slog"
	"sync"
)

// Service caches guild settings process-wide with lazy population. Concurrent
// events may race to populate the same entry; last write wins.
type Service struct {
	source Source
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]Settings
}

// NewService creates a cached settings service over source.
func NewService(log *slog.Logger, source Source) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		source: source,
		logger: log.With(slog.String("service", "guilds")),
		cache:  map[string]Settings{},
	}
}

// Get returns the guild's settings, loading and caching them on first use.
func (s *Service) Get(ctx context.Context, guildID string) (Settings, error) {
	s.mu.RLock()
	cached, ok := s.cache[guildID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	settings, _, err := s.source.Get(ctx, guildID)
	if err != nil {
		return Settings{}, err
	}
	s.mu.Lock()
	s.cache[guildID] = settings
	s.mu.Unlock()
	return settings, nil
}

// Ensure provisions a default settings row for a freshly joined guild and
// warms the cache. Existing rows are left untouched.
func (s *Service) Ensure(ctx context.Context, guildID string) error {
	settings, found, err := s.source.Get(ctx, guildID)
	if err != nil {
		return err
	}
	if !found {
		if err := s.source.Upsert(ctx, settings); err != nil {
			return err
		}
		s.logger.Info("provisioned guild settings", slog.String("guild_id", guildID))
	}
	s.mu.Lock()
	s.cache[guildID] = settings
	s.mu.Unlock()
	return nil
}

// Invalidate drops the cached entry so the next Get reloads from the store.
func (s *Service) Invalidate(guildID string) {
	s.mu.Lock()
	delete(s.cache, guildID)
	s.mu.Unlock()
}

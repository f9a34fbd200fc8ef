package identity

import (
	"context"
	"log/slog"
	"sync"
)

// Resolver maps author IDs to display identities. Hits come from a
// process-wide cache warmed by previous lookups; misses fall back to a remote
// member fetch. A failed fetch yields an unresolved identity, never an error.
type Resolver struct {
	fetcher MemberFetcher
	logger  *slog.Logger

	mu    sync.RWMutex
	cache map[string]Identity
}

// NewResolver creates an identity resolver over fetcher.
func NewResolver(log *slog.Logger, fetcher MemberFetcher) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		fetcher: fetcher,
		logger:  log.With(slog.String("service", "identity")),
		cache:   map[string]Identity{},
	}
}

// Resolve returns the display identity for userID in guildID. Unresolvable
// users come back with Resolved=false and only the ID set.
func (r *Resolver) Resolve(ctx context.Context, guildID, userID string) Identity {
	key := guildID + "/" + userID

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	resolved, err := r.fetcher.FetchMember(ctx, guildID, userID)
	if err != nil {
		// user left, permission denied, or a transient failure; render the fallback
		r.logger.Debug("member fetch failed",
			slog.String("guild_id", guildID),
			slog.String("user_id", userID),
			slog.Any("error", err))
		return Identity{UserID: userID}
	}
	resolved.UserID = userID
	resolved.Resolved = true

	r.mu.Lock()
	r.cache[key] = resolved
	r.mu.Unlock()
	return resolved
}

// Prime stores an identity observed on the gateway without a REST fetch.
func (r *Resolver) Prime(guildID string, id Identity) {
	if id.UserID == "" {
		return
	}
	id.Resolved = true
	r.mu.Lock()
	r.cache[guildID+"/"+id.UserID] = id
	r.mu.Unlock()
}

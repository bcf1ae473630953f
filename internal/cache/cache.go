package cache

import (
	"context"
	"sync"
	"time"

	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/scoring"
	"github.com/JeevaByte/auricite-startup-scorer-sub000/internal/store"
)

// Entry is one memoized score result.
type Entry struct {
	Result     scoring.Result
	ComputedAt time.Time
}

// ResultCache memoizes computed score results keyed by fingerprint. The
// fingerprint embeds the configuration version, so activating a new version
// invalidates every prior entry without eviction; DropAll exists only for
// the explicit flush after a rescore. Writes are idempotent — recomputing
// and overwriting with an identical value is harmless.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewResultCache() *ResultCache {
	return &ResultCache{entries: make(map[string]Entry)}
}

func (c *ResultCache) Get(fingerprint string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[fingerprint]
	return e, ok
}

func (c *ResultCache) Put(fingerprint string, result scoring.Result) {
	c.mu.Lock()
	c.entries[fingerprint] = Entry{Result: result, ComputedAt: time.Now()}
	c.mu.Unlock()
}

func (c *ResultCache) DropAll() {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()
}

func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// FetchFunc loads the active configuration from the version store.
type FetchFunc func(ctx context.Context) (*store.ScoringConfiguration, error)

// ConfigCache holds the resolved active configuration for a bounded time to
// avoid a store round-trip per score. On expiry the configuration is
// refetched; Invalidate forces the next Get to refetch immediately.
type ConfigCache struct {
	fetch FetchFunc
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	cfg       *store.ScoringConfiguration
	fetchedAt time.Time
}

const DefaultConfigTTL = 5 * time.Minute

func NewConfigCache(fetch FetchFunc, ttl time.Duration) *ConfigCache {
	if ttl <= 0 {
		ttl = DefaultConfigTTL
	}
	return &ConfigCache{fetch: fetch, ttl: ttl, now: time.Now}
}

func (c *ConfigCache) Get(ctx context.Context) (*store.ScoringConfiguration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.cfg, nil
	}

	cfg, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.fetchedAt = c.now()
	return cfg, nil
}

func (c *ConfigCache) Invalidate() {
	c.mu.Lock()
	c.cfg = nil
	c.mu.Unlock()
}

package keywords

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Cache wraps a Source with a time-boxed cache: the taxonomy is loaded on
// first use and reused until the staleness window elapses. A failed reload
// degrades to the compiled-in fallback rather than an error, so the pipeline
// always has keywords to work with. Process-lifetime state, no teardown.
type Cache struct {
	source Source
	ttl    time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	cached   Taxonomy
	loadedAt time.Time
	loaded   bool
}

// NewCache creates a taxonomy cache over source with the given staleness
// window.
func NewCache(source Source, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		source: source,
		ttl:    ttl,
		logger: logger.With("component", "keyword_cache"),
	}
}

// GetOrRefresh returns the cached taxonomy while it is younger than the
// staleness window, reloading it otherwise. now is injected so tests can
// control the clock.
func (c *Cache) GetOrRefresh(ctx context.Context, now time.Time) Taxonomy {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && now.Sub(c.loadedAt) < c.ttl {
		c.logger.Debug("using cached keywords", "age", now.Sub(c.loadedAt))
		return c.cached
	}

	taxonomy, err := c.source.Load(ctx)
	if err != nil || taxonomy.Empty() {
		if err != nil {
			c.logger.Error("keyword source failed, using fallback", "error", err)
		} else {
			c.logger.Warn("keyword source returned no active keywords, using fallback")
		}
		taxonomy = Fallback()
	}

	c.cached = taxonomy
	c.loadedAt = now
	c.loaded = true
	return taxonomy
}

package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Prewarmer reloads a cache from its backing store.
type Prewarmer interface {
	Prewarm(ctx context.Context) error
}

// CacheRefreshWorker re-runs a prewarm on a fixed interval so entries written
// with a TTL are replaced before they expire.
type CacheRefreshWorker struct {
	cache    Prewarmer
	interval time.Duration
	log      zerolog.Logger
}

func NewCacheRefreshWorker(cache Prewarmer, interval time.Duration, log zerolog.Logger) *CacheRefreshWorker {
	return &CacheRefreshWorker{
		cache:    cache,
		interval: interval,
		log:      log.With().Str("component", "cache_refresh_worker").Logger(),
	}
}

// Start blocks until ctx is cancelled. A non-positive interval returns at once.
func (w *CacheRefreshWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		return
	}
	w.log.Info().Dur("interval", w.interval).Msg("CacheRefreshWorker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("CacheRefreshWorker stopped")
			return
		case <-ticker.C:
			start := time.Now()
			if err := w.cache.Prewarm(ctx); err != nil {
				if ctx.Err() == nil {
					w.log.Warn().Err(err).Msg("Cache refresh failed")
				}
				continue
			}
			w.log.Debug().Dur("took", time.Since(start)).Msg("Cache refreshed")
		}
	}
}

package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/cache"
)

// RefreshWorker periodically reloads every registered configuration snapshot.
// Configuration changes in the database become visible only after a refresh
// cycle or an explicit admin refresh.
type RefreshWorker struct {
	interval time.Duration
	caches   []cache.Refresher
	log      *zerolog.Logger
}

func NewRefreshWorker(interval time.Duration, caches []cache.Refresher, logger *zerolog.Logger) *RefreshWorker {
	refLog := logger.With().Str("component", "RefreshWorker").Logger()
	return &RefreshWorker{
		interval: interval,
		caches:   caches,
		log:      &refLog,
	}
}

func (w *RefreshWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting cache refresh worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping cache refresh worker")
			return ctx.Err()
		case <-ticker.C:
			w.RefreshAll(ctx)
		}
	}
}

// RefreshAll reloads every snapshot once. A failing cache keeps its previous
// snapshot and never stops the others from refreshing.
func (w *RefreshWorker) RefreshAll(ctx context.Context) {
	start := time.Now()
	for _, c := range w.caches {
		c.Refresh(ctx)
	}
	w.log.Info().Int("caches", len(w.caches)).Dur("took", time.Since(start)).Msg("refresh cycle complete")
}

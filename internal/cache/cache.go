package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/metrics"
)

// Loader materializes one immutable snapshot from the backing store.
type Loader[T any] func(ctx context.Context) (T, error)

// Snapshot owns one configuration kind: it loads an immutable value, serves
// it to arbitrarily many concurrent readers, and swaps it atomically on a
// successful refresh. A failed refresh keeps serving the previous snapshot.
// Readers never block on a refresh in progress.
type Snapshot[T any] struct {
	name string
	load Loader[T]
	cur  atomic.Pointer[T]
	mu   sync.Mutex // one refresh at a time for this kind
	log  zerolog.Logger
}

func New[T any](name string, load Loader[T], logger *zerolog.Logger) *Snapshot[T] {
	s := &Snapshot[T]{
		name: name,
		load: load,
		log:  logger.With().Str("cache", name).Logger(),
	}
	var empty T
	s.cur.Store(&empty)
	return s
}

// Load is the startup load. On failure the cache starts empty (lookups
// return absent) instead of blocking startup.
func (s *Snapshot[T]) Load(ctx context.Context) {
	if err := s.refresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("initial load failed; starting empty")
		metrics.IncCacheRefresh(s.name, "initial_failure")
	}
}

// Refresh builds a new snapshot off to the side and swaps it in. It never
// propagates an error to its caller: failures are logged and the previous
// snapshot stays in service.
func (s *Snapshot[T]) Refresh(ctx context.Context) {
	if err := s.refresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("refresh failed; keeping previous snapshot")
		metrics.IncCacheRefresh(s.name, "failure")
	}
}

func (s *Snapshot[T]) refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.cur.Store(&next)
	metrics.IncCacheRefresh(s.name, "success")
	s.log.Debug().Msg("snapshot refreshed")
	return nil
}

// Current returns the currently-served snapshot. Pure read; the returned
// value is shared and must not be mutated.
func (s *Snapshot[T]) Current() T {
	return *s.cur.Load()
}

// Name identifies the configuration kind, for logs and the scheduler.
func (s *Snapshot[T]) Name() string { return s.name }

// Refresher is what the refresh scheduler drives.
type Refresher interface {
	Name() string
	Refresh(ctx context.Context)
}

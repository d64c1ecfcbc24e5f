package cache

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/repository"
)

type headerSnapshot struct {
	byProvider map[int64]map[string]string
}

// HeaderCache serves the outbound header map per provider. Blank names or
// values are dropped at load.
type HeaderCache struct {
	*Snapshot[headerSnapshot]
}

func NewHeaderCache(store repository.HeaderStore, logger *zerolog.Logger) *HeaderCache {
	load := func(ctx context.Context) (headerSnapshot, error) {
		rows, err := store.LoadHeaders(ctx)
		if err != nil {
			return headerSnapshot{}, err
		}
		snap := headerSnapshot{byProvider: make(map[int64]map[string]string)}
		for _, row := range rows {
			name := strings.TrimSpace(row.Name)
			value := strings.TrimSpace(row.Value)
			if name == "" || value == "" {
				continue
			}
			m := snap.byProvider[row.ProviderCode]
			if m == nil {
				m = make(map[string]string)
				snap.byProvider[row.ProviderCode] = m
			}
			m[name] = value
		}
		return snap, nil
	}
	return &HeaderCache{Snapshot: New("headers", load, logger)}
}

// Headers returns a copy of the provider's header map so callers cannot
// mutate the snapshot.
func (c *HeaderCache) Headers(providerCode int64) map[string]string {
	snap := c.Current()
	src := snap.byProvider[providerCode]
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

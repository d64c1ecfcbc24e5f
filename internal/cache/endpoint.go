package cache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/repository"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/metrics"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/mapping"
)

type endpointKey struct {
	provider int64
	service  string
}

// endpointSnapshot indexes only active configs; a disabled or non-REST row
// is simply absent.
type endpointSnapshot struct {
	active map[endpointKey]model.EndpointConfig
}

// EndpointCache serves active endpoint configs per (provider, serviceKey).
type EndpointCache struct {
	*Snapshot[endpointSnapshot]
}

func NewEndpointCache(store repository.EndpointConfigStore, logger *zerolog.Logger) *EndpointCache {
	load := func(ctx context.Context) (endpointSnapshot, error) {
		rows, err := store.LoadEndpointConfigs(ctx)
		if err != nil {
			return endpointSnapshot{}, err
		}
		snap := endpointSnapshot{active: make(map[endpointKey]model.EndpointConfig, len(rows))}
		for _, row := range rows {
			if !row.Active() {
				continue
			}
			row.ServiceKey = mapping.NormalizeServiceKey(row.ServiceKey)
			snap.active[endpointKey{row.ProviderCode, row.ServiceKey}] = row
		}
		return snap, nil
	}
	return &EndpointCache{Snapshot: New("endpoint_configs", load, logger)}
}

// ActiveConfig returns the active config for the pair, or false when none
// is configured (or the configured one fails the activity invariant).
func (c *EndpointCache) ActiveConfig(providerCode int64, serviceKey string) (model.EndpointConfig, bool) {
	snap := c.Current()
	cfg, ok := snap.active[endpointKey{providerCode, mapping.NormalizeServiceKey(serviceKey)}]
	metrics.IncCacheLookup(c.Name(), ok)
	return cfg, ok
}

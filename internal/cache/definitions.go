package cache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/repository"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/mapping"
)

// definitionSnapshot keeps QUERY and DEFAULTS definitions per pair in load
// order; consumers depend on that order when assembling query strings.
type definitionSnapshot struct {
	query    map[endpointKey][]model.WsDefinition
	defaults map[endpointKey][]model.WsDefinition
}

// DefinitionCache serves WsDefinitions split by kind.
type DefinitionCache struct {
	*Snapshot[definitionSnapshot]
}

func NewDefinitionCache(store repository.DefinitionStore, logger *zerolog.Logger) *DefinitionCache {
	load := func(ctx context.Context) (definitionSnapshot, error) {
		rows, err := store.LoadDefinitions(ctx)
		if err != nil {
			return definitionSnapshot{}, err
		}
		snap := definitionSnapshot{
			query:    make(map[endpointKey][]model.WsDefinition),
			defaults: make(map[endpointKey][]model.WsDefinition),
		}
		for _, row := range rows {
			row.ServiceKey = mapping.NormalizeServiceKey(row.ServiceKey)
			k := endpointKey{row.ProviderCode, row.ServiceKey}
			switch row.Kind {
			case model.DefinitionKindQuery:
				snap.query[k] = append(snap.query[k], row)
			case model.DefinitionKindDefaults:
				snap.defaults[k] = append(snap.defaults[k], row)
			}
		}
		return snap, nil
	}
	return &DefinitionCache{Snapshot: New("ws_definitions", load, logger)}
}

func (c *DefinitionCache) QueryDefinitions(providerCode int64, serviceKey string) []model.WsDefinition {
	snap := c.Current()
	return snap.query[endpointKey{providerCode, mapping.NormalizeServiceKey(serviceKey)}]
}

func (c *DefinitionCache) DefaultDefinitions(providerCode int64, serviceKey string) []model.WsDefinition {
	snap := c.Current()
	return snap.defaults[endpointKey{providerCode, mapping.NormalizeServiceKey(serviceKey)}]
}

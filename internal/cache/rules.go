package cache

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/repository"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/mapping"
)

type ruleGroupKey struct {
	provider  int64
	service   string
	operation string
	direction model.Direction
}

type ruleSnapshot struct {
	byGroup map[ruleGroupKey][]model.MappingRule
}

// MappingRuleCache serves load-ordered mapping rules per exact group. It
// implements mapping.RuleSource.
type MappingRuleCache struct {
	*Snapshot[ruleSnapshot]
}

var _ mapping.RuleSource = (*MappingRuleCache)(nil)

func NewMappingRuleCache(store repository.MappingRuleStore, logger *zerolog.Logger) *MappingRuleCache {
	load := func(ctx context.Context) (ruleSnapshot, error) {
		rows, err := store.LoadMappingRules(ctx)
		if err != nil {
			return ruleSnapshot{}, err
		}
		snap := ruleSnapshot{byGroup: make(map[ruleGroupKey][]model.MappingRule)}
		for _, row := range rows {
			row.ServiceKey = mapping.NormalizeServiceKey(row.ServiceKey)
			row.Operation = mapping.NormalizeOperation(row.Operation)
			k := ruleGroupKey{row.ProviderCode, row.ServiceKey, row.Operation, row.Direction}
			snap.byGroup[k] = append(snap.byGroup[k], row)
		}
		// Ordering within a group is by `order` then `id`, fixed at load.
		for _, group := range snap.byGroup {
			sort.SliceStable(group, func(i, j int) bool {
				if group[i].Order != group[j].Order {
					return group[i].Order < group[j].Order
				}
				return group[i].ID < group[j].ID
			})
		}
		return snap, nil
	}
	return &MappingRuleCache{Snapshot: New("mapping_rules", load, logger)}
}

// Rules returns the ordered rule list for the exact group, or nil.
func (c *MappingRuleCache) Rules(providerCode int64, serviceKey, operation string, direction model.Direction) []model.MappingRule {
	snap := c.Current()
	return snap.byGroup[ruleGroupKey{providerCode, serviceKey, operation, direction}]
}

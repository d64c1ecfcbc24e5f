package cache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/repository"
)

type bankSnapshot struct {
	byProvider map[int64][]model.Bank
}

// BankCache serves enabled bank catalog entries per provider, in load order.
type BankCache struct {
	*Snapshot[bankSnapshot]
}

func NewBankCache(store repository.BankStore, logger *zerolog.Logger) *BankCache {
	load := func(ctx context.Context) (bankSnapshot, error) {
		rows, err := store.LoadBanks(ctx)
		if err != nil {
			return bankSnapshot{}, err
		}
		snap := bankSnapshot{byProvider: make(map[int64][]model.Bank)}
		for _, row := range rows {
			if !row.Enabled {
				continue
			}
			snap.byProvider[row.ProviderCode] = append(snap.byProvider[row.ProviderCode], row)
		}
		return snap, nil
	}
	return &BankCache{Snapshot: New("banks", load, logger)}
}

func (c *BankCache) Banks(providerCode int64) []model.Bank {
	snap := c.Current()
	return snap.byProvider[providerCode]
}

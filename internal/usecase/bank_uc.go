// File: internal/usecase/bank_uc.go
package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/cache"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/adapter"
)

// Compile-time check
var _ BankUseCase = (*bankUC)(nil)

// BankUseCase serves a provider's bank catalog: from the snapshot when one
// is loaded, otherwise relayed live through the provider's getbanks
// endpoint when that endpoint is active.
type BankUseCase interface {
	Banks(ctx context.Context, providerCode int64, providerName string) ([]model.Bank, error)
}

type bankUC struct {
	banks     *cache.BankCache
	endpoints EndpointUseCase
	transform TransformUseCase
	transport adapter.OutboundTransport
	log       *zerolog.Logger
}

func NewBankUseCase(banks *cache.BankCache, endpoints EndpointUseCase, transform TransformUseCase, transport adapter.OutboundTransport, logger *zerolog.Logger) *bankUC {
	l := logger.With().Str("component", "BankUC").Logger()
	return &bankUC{banks: banks, endpoints: endpoints, transform: transform, transport: transport, log: &l}
}

func (u *bankUC) Banks(ctx context.Context, providerCode int64, providerName string) ([]model.Bank, error) {
	if cached := u.banks.Banks(providerCode); len(cached) > 0 {
		return cached, nil
	}
	return u.fetchRemote(ctx, providerCode, providerName)
}

func (u *bankUC) fetchRemote(ctx context.Context, providerCode int64, providerName string) ([]model.Bank, error) {
	cfg, ok := u.endpoints.ActiveConfig(providerCode, model.ServiceKeyGetBanks)
	if !ok {
		return nil, fmt.Errorf("%w: provider=%d service=%s", domain.ErrNotFound, providerCode, model.ServiceKeyGetBanks)
	}
	headers, err := u.endpoints.Headers(providerCode)
	if err != nil {
		return nil, err
	}

	raw, err := u.transport.Do(ctx, adapter.Call{Method: cfg.HTTPMethod, URL: cfg.URI, Headers: headers})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransportFailed, err)
	}
	tree, err := u.transform.Normalize(raw, providerCode, model.ServiceKeyGetBanks, providerName)
	if err != nil {
		return nil, err
	}

	items, _ := tree["banks"].([]map[string]any)
	out := make([]model.Bank, 0, len(items))
	for _, item := range items {
		b := model.Bank{ProviderCode: providerCode, Enabled: true}
		if v, ok := item["bank_code"].(string); ok {
			b.BankCode = v
		}
		if v, ok := item["bank_name"].(string); ok {
			b.BankName = v
		}
		if b.BankCode != "" {
			out = append(out, b)
		}
	}
	return out, nil
}

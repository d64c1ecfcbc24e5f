package repository

import (
	"context"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
)

// -----------------------------
// Configuration store (read-only)
// -----------------------------
//
// Each Load* returns the full row set of one configuration kind. Snapshot
// caches call these once per refresh cycle and own all in-memory indexing;
// the store does no filtering beyond what its queries state.

type EndpointConfigStore interface {
	// LoadEndpointConfigs tolerates one schema drift: the primary query uses
	// the current service-key column and, when the store reports an unknown
	// column, a fallback query with the historical column name is issued.
	// The fallback is re-attempted on every call, never remembered.
	LoadEndpointConfigs(ctx context.Context) ([]model.EndpointConfig, error)
}

type DefinitionStore interface {
	LoadDefinitions(ctx context.Context) ([]model.WsDefinition, error)
}

type HeaderStore interface {
	LoadHeaders(ctx context.Context) ([]model.HeaderEntry, error)
}

type MappingRuleStore interface {
	LoadMappingRules(ctx context.Context) ([]model.MappingRule, error)
}

type WebhookProviderStore interface {
	LoadWebhookProviders(ctx context.Context) ([]model.WebhookProviderConfig, error)
}

type BankStore interface {
	LoadBanks(ctx context.Context) ([]model.Bank, error)
}

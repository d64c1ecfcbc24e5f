package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/repository"
)

// pgUndefinedColumn is the Postgres error code for an unknown column.
const pgUndefinedColumn = "42703"

var (
	_ repository.EndpointConfigStore  = (*configStore)(nil)
	_ repository.DefinitionStore      = (*configStore)(nil)
	_ repository.HeaderStore          = (*configStore)(nil)
	_ repository.MappingRuleStore     = (*configStore)(nil)
	_ repository.WebhookProviderStore = (*configStore)(nil)
	_ repository.BankStore            = (*configStore)(nil)
)

// configStore reads full configuration row sets for the snapshot caches.
type configStore struct {
	pool *pgxpool.Pool
}

func NewConfigStore(pool *pgxpool.Pool) *configStore {
	return &configStore{pool: pool}
}

// LoadEndpointConfigs issues the primary query against the current
// service-key column and retries with the historical column name when the
// store reports an unknown column. The fallback is attempted fresh on every
// call; the schema is not assumed stable across the load's lifetime.
func (s *configStore) LoadEndpointConfigs(ctx context.Context) ([]model.EndpointConfig, error) {
	const primary = `SELECT provider_code, ws_key, enabled, connection_type, http_method, request_type, uri FROM ws_endpoint_configs;`
	const fallback = `SELECT provider_code, wskey, enabled, connection_type, http_method, request_type, uri FROM ws_endpoint_configs;`

	rows, err := queryRows(ctx, s.pool, nil, primary)
	if err != nil && isUndefinedColumn(err) {
		rows, err = queryRows(ctx, s.pool, nil, fallback)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EndpointConfig
	for rows.Next() {
		var c model.EndpointConfig
		if err := rows.Scan(&c.ProviderCode, &c.ServiceKey, &c.Enabled, &c.ConnectionType, &c.HTTPMethod, &c.RequestType, &c.URI); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *configStore) LoadDefinitions(ctx context.Context) ([]model.WsDefinition, error) {
	const q = `SELECT provider_code, ws_key, key, default_value, kind, system_value_ref FROM ws_definitions ORDER BY id;`
	rows, err := queryRows(ctx, s.pool, nil, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WsDefinition
	for rows.Next() {
		var d model.WsDefinition
		var defaultValue, systemRef *string
		if err := rows.Scan(&d.ProviderCode, &d.ServiceKey, &d.Key, &defaultValue, &d.Kind, &systemRef); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		if defaultValue != nil {
			d.DefaultValue = *defaultValue
		}
		if systemRef != nil {
			d.SystemValueRef = *systemRef
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *configStore) LoadHeaders(ctx context.Context) ([]model.HeaderEntry, error) {
	const q = `SELECT provider_code, name, value FROM ws_headers;`
	rows, err := queryRows(ctx, s.pool, nil, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.HeaderEntry
	for rows.Next() {
		var h model.HeaderEntry
		if err := rows.Scan(&h.ProviderCode, &h.Name, &h.Value); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *configStore) LoadMappingRules(ctx context.Context) ([]model.MappingRule, error) {
	const q = `SELECT id, display_order, provider_code, ws_key, operation, direction, app_section, app_attribute, ext_section, ext_attribute FROM ws_mapping_rules;`
	rows, err := queryRows(ctx, s.pool, nil, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MappingRule
	for rows.Next() {
		var r model.MappingRule
		if err := rows.Scan(&r.ID, &r.Order, &r.ProviderCode, &r.ServiceKey, &r.Operation, &r.Direction, &r.AppSection, &r.AppAttribute, &r.ExtSection, &r.ExtAttribute); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *configStore) LoadWebhookProviders(ctx context.Context) ([]model.WebhookProviderConfig, error) {
	const q = `SELECT provider_code, provider_name, enabled, api_key, secret, signature_mode, allowed_ips FROM webhook_providers;`
	rows, err := queryRows(ctx, s.pool, nil, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WebhookProviderConfig
	for rows.Next() {
		var c model.WebhookProviderConfig
		if err := rows.Scan(&c.ProviderCode, &c.ProviderName, &c.Enabled, &c.APIKey, &c.Secret, &c.SignatureMode, &c.AllowedIPs); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *configStore) LoadBanks(ctx context.Context) ([]model.Bank, error) {
	const q = `SELECT provider_code, bank_code, bank_name, enabled FROM provider_banks ORDER BY bank_name;`
	rows, err := queryRows(ctx, s.pool, nil, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Bank
	for rows.Next() {
		var b model.Bank
		if err := rows.Scan(&b.ProviderCode, &b.BankCode, &b.BankName, &b.Enabled); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func isUndefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedColumn
	}
	return false
}

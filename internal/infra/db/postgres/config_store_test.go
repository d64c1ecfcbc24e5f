//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
)

func TestConfigStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	store := NewConfigStore(testPool)

	seedEndpoint := func(t *testing.T) {
		t.Helper()
		_, err := testPool.Exec(ctx, `
			INSERT INTO ws_endpoint_configs (provider_code, ws_key, enabled, connection_type, http_method, request_type, uri)
			VALUES (7, 'payments', TRUE, 'REST', 'POST', 'BODY', 'https://provider.example/pay')
		`)
		if err != nil {
			t.Fatalf("failed to seed endpoint config: %v", err)
		}
	}

	t.Run("should load endpoint configs", func(t *testing.T) {
		cleanup(t)
		seedEndpoint(t)

		configs, err := store.LoadEndpointConfigs(ctx)
		if err != nil {
			t.Fatalf("LoadEndpointConfigs failed unexpectedly: %v", err)
		}
		if len(configs) != 1 {
			t.Fatalf("expected 1 config, but got %d", len(configs))
		}
		c := configs[0]
		if c.ProviderCode != 7 || c.ServiceKey != "payments" || c.URI != "https://provider.example/pay" {
			t.Errorf("loaded config does not match seed: %+v", c)
		}
		if !c.Active() {
			t.Error("expected seeded config to be active")
		}
	})

	t.Run("should fall back to the historical service-key column", func(t *testing.T) {
		cleanup(t)

		// Simulate a schema that predates the ws_key rename.
		if _, err := testPool.Exec(ctx, `ALTER TABLE ws_endpoint_configs RENAME COLUMN ws_key TO wskey`); err != nil {
			t.Fatalf("failed to rename column: %v", err)
		}
		defer func() {
			if _, err := testPool.Exec(ctx, `ALTER TABLE ws_endpoint_configs RENAME COLUMN wskey TO ws_key`); err != nil {
				t.Fatalf("failed to restore column name: %v", err)
			}
		}()
		if _, err := testPool.Exec(ctx, `
			INSERT INTO ws_endpoint_configs (provider_code, wskey, enabled, connection_type, http_method, request_type, uri)
			VALUES (7, 'getbanks', TRUE, 'REST', 'GET', 'QUERY', 'https://provider.example/banks')
		`); err != nil {
			t.Fatalf("failed to seed endpoint config: %v", err)
		}

		configs, err := store.LoadEndpointConfigs(ctx)
		if err != nil {
			t.Fatalf("expected the fallback query to succeed, but got: %v", err)
		}
		if len(configs) != 1 || configs[0].ServiceKey != "getbanks" {
			t.Fatalf("expected the getbanks row via the fallback column, but got %+v", configs)
		}
	})

	t.Run("should load definitions with null defaults", func(t *testing.T) {
		cleanup(t)
		if _, err := testPool.Exec(ctx, `
			INSERT INTO ws_definitions (provider_code, ws_key, key, default_value, kind, system_value_ref)
			VALUES (7, 'payments', 'canal', 'WEB', 'DEFAULTS', NULL),
			       (7, 'getbanks', 'fecha', NULL, 'QUERY', 'now')
		`); err != nil {
			t.Fatalf("failed to seed definitions: %v", err)
		}

		defs, err := store.LoadDefinitions(ctx)
		if err != nil {
			t.Fatalf("LoadDefinitions failed unexpectedly: %v", err)
		}
		if len(defs) != 2 {
			t.Fatalf("expected 2 definitions, but got %d", len(defs))
		}
		if defs[0].DefaultValue != "WEB" || defs[0].SystemValueRef != "" {
			t.Errorf("unexpected first definition: %+v", defs[0])
		}
		if defs[1].DefaultValue != nil || defs[1].SystemValueRef != "now" {
			t.Errorf("unexpected second definition: %+v", defs[1])
		}
	})

	t.Run("should load webhook providers with their allowed IPs", func(t *testing.T) {
		cleanup(t)
		if _, err := testPool.Exec(ctx, `
			INSERT INTO webhook_providers (provider_code, provider_name, enabled, api_key, secret, signature_mode, allowed_ips)
			VALUES (2, 'Pago Express', TRUE, 'enc-api-key', 'enc-secret', 'SHA256', '{10.0.0.5,10.0.0.6}')
		`); err != nil {
			t.Fatalf("failed to seed webhook provider: %v", err)
		}

		providers, err := store.LoadWebhookProviders(ctx)
		if err != nil {
			t.Fatalf("LoadWebhookProviders failed unexpectedly: %v", err)
		}
		if len(providers) != 1 {
			t.Fatalf("expected 1 provider, but got %d", len(providers))
		}
		p := providers[0]
		if p.ProviderName != "Pago Express" || len(p.AllowedIPs) != 2 || p.AllowedIPs[0] != "10.0.0.5" {
			t.Errorf("loaded provider does not match seed: %+v", p)
		}
	})

	t.Run("should load banks ordered by name", func(t *testing.T) {
		cleanup(t)
		if _, err := testPool.Exec(ctx, `
			INSERT INTO provider_banks (provider_code, bank_code, bank_name, enabled)
			VALUES (7, 'ZB', 'Zeta Bank', TRUE),
			       (7, 'AB', 'Alpha Bank', TRUE)
		`); err != nil {
			t.Fatalf("failed to seed banks: %v", err)
		}

		banks, err := store.LoadBanks(ctx)
		if err != nil {
			t.Fatalf("LoadBanks failed unexpectedly: %v", err)
		}
		want := []model.Bank{
			{ProviderCode: 7, BankCode: "AB", BankName: "Alpha Bank", Enabled: true},
			{ProviderCode: 7, BankCode: "ZB", BankName: "Zeta Bank", Enabled: true},
		}
		if len(banks) != len(want) {
			t.Fatalf("expected %d banks, but got %d", len(want), len(banks))
		}
		for i := range want {
			if banks[i] != want[i] {
				t.Errorf("bank %d: expected %+v, but got %+v", i, want[i], banks[i])
			}
		}
	})
}

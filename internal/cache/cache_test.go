//go:build !integration

package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
)

func restEndpoint(code int64, service string) model.EndpointConfig {
	return model.EndpointConfig{
		ProviderCode:   code,
		ServiceKey:     service,
		Enabled:        true,
		ConnectionType: model.ConnectionTypeREST,
		HTTPMethod:     "POST",
		RequestType:    "BODY",
		URI:            "https://provider.test/api",
	}
}

func TestSnapshotLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("initial load failure leaves an empty snapshot", func(t *testing.T) {
		// Arrange
		store := &memConfigStore{endpoints: []model.EndpointConfig{restEndpoint(1, "payments")}}
		store.setFailNext()
		c := NewEndpointCache(store, newTestLogger())

		// Act
		c.Load(ctx)

		// Assert: lookups see absent, not an error or a panic
		if _, ok := c.ActiveConfig(1, "payments"); ok {
			t.Fatal("expected empty snapshot after failed initial load")
		}
	})

	t.Run("refresh failure keeps the previous snapshot", func(t *testing.T) {
		store := &memConfigStore{endpoints: []model.EndpointConfig{restEndpoint(1, "payments")}}
		c := NewEndpointCache(store, newTestLogger())
		c.Load(ctx)

		store.setFailNext()
		c.Refresh(ctx)

		if _, ok := c.ActiveConfig(1, "payments"); !ok {
			t.Fatal("expected previous snapshot to survive a failed refresh")
		}
	})

	t.Run("successful refresh swaps the snapshot", func(t *testing.T) {
		store := &memConfigStore{endpoints: []model.EndpointConfig{restEndpoint(1, "payments")}}
		c := NewEndpointCache(store, newTestLogger())
		c.Load(ctx)

		disabled := restEndpoint(1, "payments")
		disabled.Enabled = false
		store.setEndpoints([]model.EndpointConfig{disabled, restEndpoint(2, "payments")})
		c.Refresh(ctx)

		if _, ok := c.ActiveConfig(1, "payments"); ok {
			t.Fatal("disabled endpoint must vanish after refresh")
		}
		if _, ok := c.ActiveConfig(2, "payments"); !ok {
			t.Fatal("new endpoint must be visible after refresh")
		}
	})

	t.Run("readers never observe a torn snapshot during refreshes", func(t *testing.T) {
		store := &memConfigStore{endpoints: []model.EndpointConfig{
			restEndpoint(1, "payments"),
			restEndpoint(1, "getbanks"),
		}}
		c := NewEndpointCache(store, newTestLogger())
		c.Load(ctx)

		var wg sync.WaitGroup
		stop := make(chan struct{})
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-stop:
						return
					default:
					}
					// Both keys come from the same load; within one
					// snapshot they must agree.
					snap := c.Current()
					_, ok1 := snap.active[endpointKey{1, "payments"}]
					_, ok2 := snap.active[endpointKey{1, "getbanks"}]
					if ok1 != ok2 {
						t.Error("torn read: keys from one snapshot disagree")
						return
					}
				}
			}()
		}
		for i := 0; i < 50; i++ {
			if i%2 == 0 {
				store.setEndpoints(nil)
			} else {
				store.setEndpoints([]model.EndpointConfig{
					restEndpoint(1, "payments"),
					restEndpoint(1, "getbanks"),
				})
			}
			c.Refresh(ctx)
		}
		close(stop)
		wg.Wait()
	})
}

func TestEndpointCacheIndexing(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes only dispatchable rows", func(t *testing.T) {
		soap := restEndpoint(1, "payments")
		soap.ConnectionType = "SOAP"
		noURI := restEndpoint(2, "payments")
		noURI.URI = ""
		store := &memConfigStore{endpoints: []model.EndpointConfig{
			soap, noURI, restEndpoint(3, "payments"),
		}}
		c := NewEndpointCache(store, newTestLogger())
		c.Load(ctx)

		if _, ok := c.ActiveConfig(1, "payments"); ok {
			t.Error("non-REST row must be absent")
		}
		if _, ok := c.ActiveConfig(2, "payments"); ok {
			t.Error("row without URI must be absent")
		}
		if _, ok := c.ActiveConfig(3, "payments"); !ok {
			t.Error("active row must be present")
		}
	})

	t.Run("normalizes the service key on load and lookup", func(t *testing.T) {
		ep := restEndpoint(1, "  Payments ")
		store := &memConfigStore{endpoints: []model.EndpointConfig{ep}}
		c := NewEndpointCache(store, newTestLogger())
		c.Load(ctx)

		if _, ok := c.ActiveConfig(1, "PAYMENTS"); !ok {
			t.Fatal("expected case/space-insensitive service key match")
		}
	})
}

func TestDefinitionCache(t *testing.T) {
	ctx := context.Background()

	store := &memConfigStore{defs: []model.WsDefinition{
		{ProviderCode: 1, ServiceKey: "payment-status", Key: "operation_id", Kind: model.DefinitionKindQuery, SystemValueRef: model.SystemValueOperationID},
		{ProviderCode: 1, ServiceKey: "payment-status", Key: "channel", Kind: model.DefinitionKindQuery, DefaultValue: "web"},
		{ProviderCode: 1, ServiceKey: "payments", Key: "currency", Kind: model.DefinitionKindDefaults, DefaultValue: "USD"},
	}}
	c := NewDefinitionCache(store, newTestLogger())
	c.Load(ctx)

	t.Run("splits by kind and preserves load order", func(t *testing.T) {
		q := c.QueryDefinitions(1, "payment-status")
		if len(q) != 2 || q[0].Key != "operation_id" || q[1].Key != "channel" {
			t.Fatalf("unexpected query definitions: %+v", q)
		}
		d := c.DefaultDefinitions(1, "payments")
		if len(d) != 1 || d[0].Key != "currency" {
			t.Fatalf("unexpected default definitions: %+v", d)
		}
	})

	t.Run("unknown pair yields nil", func(t *testing.T) {
		if got := c.QueryDefinitions(9, "payments"); got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})
}

func TestHeaderCache(t *testing.T) {
	ctx := context.Background()

	store := &memConfigStore{headers: []model.HeaderEntry{
		{ProviderCode: 1, Name: "Content-Type", Value: "application/json"},
		{ProviderCode: 1, Name: "  ", Value: "dropped"},
		{ProviderCode: 1, Name: "X-Key", Value: ""},
	}}
	c := NewHeaderCache(store, newTestLogger())
	c.Load(ctx)

	t.Run("drops blank names and values", func(t *testing.T) {
		h := c.Headers(1)
		if len(h) != 1 || h["Content-Type"] != "application/json" {
			t.Fatalf("unexpected headers: %+v", h)
		}
	})

	t.Run("returns a defensive copy", func(t *testing.T) {
		h := c.Headers(1)
		h["Content-Type"] = "mutated"
		if c.Headers(1)["Content-Type"] != "application/json" {
			t.Fatal("snapshot must not be mutable through the returned map")
		}
	})

	t.Run("unknown provider yields nil", func(t *testing.T) {
		if h := c.Headers(9); h != nil {
			t.Fatalf("expected nil, got %+v", h)
		}
	})
}

func TestMappingRuleCacheOrdering(t *testing.T) {
	ctx := context.Background()

	store := &memConfigStore{rules: []model.MappingRule{
		{ID: 30, Order: 2, ProviderCode: 1, ServiceKey: "payments", Operation: "DEFAULT", Direction: model.DirectionRequest, AppSection: model.SectionBody, AppAttribute: "c", ExtSection: model.SectionBody, ExtAttribute: "z"},
		{ID: 20, Order: 1, ProviderCode: 1, ServiceKey: "payments", Operation: "DEFAULT", Direction: model.DirectionRequest, AppSection: model.SectionBody, AppAttribute: "b", ExtSection: model.SectionBody, ExtAttribute: "y"},
		{ID: 10, Order: 1, ProviderCode: 1, ServiceKey: "payments", Operation: "DEFAULT", Direction: model.DirectionRequest, AppSection: model.SectionBody, AppAttribute: "a", ExtSection: model.SectionBody, ExtAttribute: "x"},
	}}
	c := NewMappingRuleCache(store, newTestLogger())
	c.Load(ctx)

	rules := c.Rules(1, "payments", "DEFAULT", model.DirectionRequest)
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	// order asc, then id asc
	if rules[0].ID != 10 || rules[1].ID != 20 || rules[2].ID != 30 {
		t.Fatalf("unexpected rule order: %d %d %d", rules[0].ID, rules[1].ID, rules[2].ID)
	}
}

func TestWebhookProviderCacheDecryption(t *testing.T) {
	ctx := context.Background()

	t.Run("rows failing decryption are dropped, others survive", func(t *testing.T) {
		store := &memConfigStore{providers: []model.WebhookProviderConfig{
			{ProviderCode: 1, Enabled: true, APIKey: "enc-good", Secret: "enc-secret"},
			{ProviderCode: 2, Enabled: true, APIKey: "enc-bad", Secret: "enc-secret"},
		}}
		c := NewWebhookProviderCache(store, failingDecryptor{bad: "enc-bad"}, newTestLogger())
		c.Load(ctx)

		if _, ok := c.Provider(1); !ok {
			t.Error("healthy provider must be present")
		}
		if _, ok := c.Provider(2); ok {
			t.Error("provider with undecryptable credentials must be dropped")
		}
	})

	t.Run("credentials arrive decrypted", func(t *testing.T) {
		store := &memConfigStore{providers: []model.WebhookProviderConfig{
			{ProviderCode: 1, Enabled: true, APIKey: "key-1", Secret: "sec-1"},
		}}
		c := NewWebhookProviderCache(store, plainDecryptor{}, newTestLogger())
		c.Load(ctx)

		p, ok := c.Provider(1)
		if !ok || p.APIKey != "key-1" || p.Secret != "sec-1" {
			t.Fatalf("unexpected provider: %+v ok=%v", p, ok)
		}
	})
}

func TestBankCache(t *testing.T) {
	ctx := context.Background()

	store := &memConfigStore{banks: []model.Bank{
		{ProviderCode: 1, BankCode: "001", BankName: "First", Enabled: true},
		{ProviderCode: 1, BankCode: "002", BankName: "Second", Enabled: false},
		{ProviderCode: 2, BankCode: "900", BankName: "Other", Enabled: true},
	}}
	c := NewBankCache(store, newTestLogger())
	c.Load(ctx)

	banks := c.Banks(1)
	if len(banks) != 1 || banks[0].BankCode != "001" {
		t.Fatalf("unexpected banks: %+v", banks)
	}
	if got := c.Banks(3); got != nil {
		t.Fatalf("expected nil for unknown provider, got %+v", got)
	}
}

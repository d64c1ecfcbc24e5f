//go:build !integration

// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/cache"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/adapter"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// configStoreStub backs the snapshot caches with fixed rows.
type configStoreStub struct {
	endpoints []model.EndpointConfig
	defs      []model.WsDefinition
	headers   []model.HeaderEntry
	rules     []model.MappingRule
	providers []model.WebhookProviderConfig
	banks     []model.Bank
}

func (s *configStoreStub) LoadEndpointConfigs(ctx context.Context) ([]model.EndpointConfig, error) {
	return s.endpoints, nil
}
func (s *configStoreStub) LoadDefinitions(ctx context.Context) ([]model.WsDefinition, error) {
	return s.defs, nil
}
func (s *configStoreStub) LoadHeaders(ctx context.Context) ([]model.HeaderEntry, error) {
	return s.headers, nil
}
func (s *configStoreStub) LoadMappingRules(ctx context.Context) ([]model.MappingRule, error) {
	return s.rules, nil
}
func (s *configStoreStub) LoadWebhookProviders(ctx context.Context) ([]model.WebhookProviderConfig, error) {
	return s.providers, nil
}
func (s *configStoreStub) LoadBanks(ctx context.Context) ([]model.Bank, error) {
	return s.banks, nil
}

// loadedCaches builds and loads every snapshot cache off the stub.
type loadedCaches struct {
	endpoints   *cache.EndpointCache
	definitions *cache.DefinitionCache
	headers     *cache.HeaderCache
	rules       *cache.MappingRuleCache
	providers   *cache.WebhookProviderCache
	banks       *cache.BankCache
}

type passthroughDecryptor struct{}

func (passthroughDecryptor) Decrypt(ct string) (string, error) { return ct, nil }

func newLoadedCaches(store *configStoreStub) *loadedCaches {
	ctx := context.Background()
	log := newTestLogger()
	c := &loadedCaches{
		endpoints:   cache.NewEndpointCache(store, log),
		definitions: cache.NewDefinitionCache(store, log),
		headers:     cache.NewHeaderCache(store, log),
		rules:       cache.NewMappingRuleCache(store, log),
		providers:   cache.NewWebhookProviderCache(store, passthroughDecryptor{}, log),
		banks:       cache.NewBankCache(store, log),
	}
	c.endpoints.Load(ctx)
	c.definitions.Load(ctx)
	c.headers.Load(ctx)
	c.rules.Load(ctx)
	c.providers.Load(ctx)
	c.banks.Load(ctx)
	return c
}

// mockTransport lets a test script the provider's answer.
type mockTransport struct {
	mu       sync.Mutex
	DoFunc   func(ctx context.Context, call adapter.Call) ([]byte, error)
	lastCall adapter.Call
	calls    int
}

var _ adapter.OutboundTransport = (*mockTransport)(nil)

func (m *mockTransport) Do(ctx context.Context, call adapter.Call) ([]byte, error) {
	m.mu.Lock()
	m.lastCall = call
	m.calls++
	m.mu.Unlock()
	if m.DoFunc != nil {
		return m.DoFunc(ctx, call)
	}
	return []byte(`{}`), nil
}

func (m *mockTransport) LastCall() adapter.Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCall
}

// mockAuditSink records what was audited, synchronously.
type mockAuditSink struct {
	mu      sync.Mutex
	entries []model.AuditEntry
}

var _ adapter.AuditSink = (*mockAuditSink)(nil)

func (m *mockAuditSink) Record(providerCode int64, serviceKey string, direction model.Direction, payload map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, model.AuditEntry{
		ProviderCode: providerCode,
		ServiceKey:   serviceKey,
		Direction:    direction,
		Payload:      payload,
	})
}

func (m *mockAuditSink) Entries() []model.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.AuditEntry(nil), m.entries...)
}

// memNotificationRepo mimics the unique-index semantics of the real store:
// concurrent creates for one natural key resolve to exactly one winner.
type memNotificationRepo struct {
	mu    sync.Mutex
	store map[string]*model.NotificationRecord
}

var _ repository.NotificationRepository = (*memNotificationRepo)(nil)

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{store: make(map[string]*model.NotificationRecord)}
}

func notifKey(merchantSalesID, referenceNo, paymentReferenceNo string) string {
	return merchantSalesID + "|" + referenceNo + "|" + paymentReferenceNo
}

func (m *memNotificationRepo) FindByNaturalKey(ctx context.Context, qx repository.Tx, merchantSalesID, referenceNo, paymentReferenceNo string) (*model.NotificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.store[notifKey(merchantSalesID, referenceNo, paymentReferenceNo)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memNotificationRepo) Create(ctx context.Context, qx repository.Tx, rec *model.NotificationRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := notifKey(rec.MerchantSalesID, rec.ReferenceNo, rec.PaymentReferenceNo)
	if _, exists := m.store[key]; exists {
		return false, nil
	}
	cp := *rec
	m.store[key] = &cp
	return true, nil
}

func (m *memNotificationRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}

// memLocker grants every lease; lockCalls lets tests assert it was used.
type memLocker struct {
	mu        sync.Mutex
	lockCalls int
}

var _ Locker = (*memLocker)(nil)

func (m *memLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockCalls++
	return fmt.Sprintf("tok-%d", m.lockCalls), nil
}

func (m *memLocker) Unlock(ctx context.Context, key, token string) error { return nil }

//go:build !integration

// File: internal/cache/mocks_test.go
package cache

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// memConfigStore is an in-memory store implementing every Load* interface.
// Rows are swappable between refreshes; failNext makes the next load fail.
type memConfigStore struct {
	mu        sync.Mutex
	endpoints []model.EndpointConfig
	defs      []model.WsDefinition
	headers   []model.HeaderEntry
	rules     []model.MappingRule
	providers []model.WebhookProviderConfig
	banks     []model.Bank
	failNext  bool
	loadCalls int
}

var errStoreDown = errors.New("store down")

func (m *memConfigStore) fail() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls++
	if m.failNext {
		m.failNext = false
		return true
	}
	return false
}

func (m *memConfigStore) LoadEndpointConfigs(ctx context.Context) ([]model.EndpointConfig, error) {
	if m.fail() {
		return nil, errStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.EndpointConfig(nil), m.endpoints...), nil
}

func (m *memConfigStore) LoadDefinitions(ctx context.Context) ([]model.WsDefinition, error) {
	if m.fail() {
		return nil, errStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.WsDefinition(nil), m.defs...), nil
}

func (m *memConfigStore) LoadHeaders(ctx context.Context) ([]model.HeaderEntry, error) {
	if m.fail() {
		return nil, errStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.HeaderEntry(nil), m.headers...), nil
}

func (m *memConfigStore) LoadMappingRules(ctx context.Context) ([]model.MappingRule, error) {
	if m.fail() {
		return nil, errStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.MappingRule(nil), m.rules...), nil
}

func (m *memConfigStore) LoadWebhookProviders(ctx context.Context) ([]model.WebhookProviderConfig, error) {
	if m.fail() {
		return nil, errStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.WebhookProviderConfig(nil), m.providers...), nil
}

func (m *memConfigStore) LoadBanks(ctx context.Context) ([]model.Bank, error) {
	if m.fail() {
		return nil, errStoreDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Bank(nil), m.banks...), nil
}

func (m *memConfigStore) setEndpoints(rows []model.EndpointConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endpoints = rows
}

func (m *memConfigStore) setFailNext() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = true
}

// plainDecryptor passes credentials through; failingDecryptor rejects a
// chosen ciphertext.
type plainDecryptor struct{}

func (plainDecryptor) Decrypt(ct string) (string, error) { return ct, nil }

type failingDecryptor struct{ bad string }

func (d failingDecryptor) Decrypt(ct string) (string, error) {
	if ct == d.bad {
		return "", errors.New("bad ciphertext")
	}
	return ct, nil
}

//go:build !integration

// File: internal/infra/web/mocks_test.go
package web

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

type mockBankUC struct {
	BanksFunc func(ctx context.Context, providerCode int64, providerName string) ([]model.Bank, error)
}

func (m *mockBankUC) Banks(ctx context.Context, providerCode int64, providerName string) ([]model.Bank, error) {
	return m.BanksFunc(ctx, providerCode, providerName)
}

type mockPaymentUC struct {
	InitiateFunc func(ctx context.Context, req *model.PaymentRequest) (*model.PaymentResponse, error)
	StatusFunc   func(ctx context.Context, req *model.StatusRequest) (*model.PaymentResponse, error)
	NotifyFunc   func(ctx context.Context, ev *model.MerchantEvent) (*model.PaymentResponse, error)
}

func (m *mockPaymentUC) Initiate(ctx context.Context, req *model.PaymentRequest) (*model.PaymentResponse, error) {
	return m.InitiateFunc(ctx, req)
}

func (m *mockPaymentUC) Status(ctx context.Context, req *model.StatusRequest) (*model.PaymentResponse, error) {
	return m.StatusFunc(ctx, req)
}

func (m *mockPaymentUC) NotifyMerchantEvent(ctx context.Context, ev *model.MerchantEvent) (*model.PaymentResponse, error) {
	return m.NotifyFunc(ctx, ev)
}

type mockWebhookUC struct {
	last    *model.WebhookNotification
	outcome usecase.WebhookOutcome
}

func (m *mockWebhookUC) Confirm(ctx context.Context, n *model.WebhookNotification) usecase.WebhookOutcome {
	m.last = n
	return m.outcome
}

type mockRefresher struct {
	mu    sync.Mutex
	calls int
}

func (m *mockRefresher) RefreshAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
}

func (m *mockRefresher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
)

func newTestRecord() *model.NotificationRecord {
	return &model.NotificationRecord{
		ID:                 ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String(),
		ProviderCode:       2,
		MerchantSalesID:    "V-1001",
		ReferenceNo:        "R-77",
		PaymentReferenceNo: "P-9",
		Amount:             "150.00",
		CurrencyID:         "USD",
		Status:             "PAID",
		OrderNo:            "ORD-1",
		RawPayload:         map[string]any{"amount": "150.00", "status": "PAID"},
		ReceivedAt:         time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestNotificationRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewNotificationRepo(testPool)

	t.Run("should create and find a notification by its natural key", func(t *testing.T) {
		cleanup(t)
		rec := newTestRecord()

		created, err := repo.Create(ctx, nil, rec)
		if err != nil {
			t.Fatalf("Create failed unexpectedly: %v", err)
		}
		if !created {
			t.Fatal("expected first insert to report created=true")
		}

		found, err := repo.FindByNaturalKey(ctx, nil, rec.MerchantSalesID, rec.ReferenceNo, rec.PaymentReferenceNo)
		if err != nil {
			t.Fatalf("FindByNaturalKey failed unexpectedly: %v", err)
		}
		if found.ID != rec.ID {
			t.Errorf("expected id %q, but got %q", rec.ID, found.ID)
		}
		if found.Amount != rec.Amount || found.Status != rec.Status {
			t.Errorf("stored record does not match: got %+v", found)
		}
		if got := found.RawPayload["status"]; got != "PAID" {
			t.Errorf("expected raw payload status PAID, but got %v", got)
		}
	})

	t.Run("should return not found for an unknown natural key", func(t *testing.T) {
		cleanup(t)
		_, err := repo.FindByNaturalKey(ctx, nil, "does", "not", "exist")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, but got %v", err)
		}
	})

	t.Run("should report created=false for a duplicate natural key", func(t *testing.T) {
		cleanup(t)
		first := newTestRecord()
		if _, err := repo.Create(ctx, nil, first); err != nil {
			t.Fatalf("Create failed unexpectedly: %v", err)
		}

		// Same natural key, different id and payload.
		dup := newTestRecord()
		dup.Status = "PAID-AGAIN"
		created, err := repo.Create(ctx, nil, dup)
		if err != nil {
			t.Fatalf("duplicate Create failed unexpectedly: %v", err)
		}
		if created {
			t.Fatal("expected duplicate insert to report created=false")
		}

		found, err := repo.FindByNaturalKey(ctx, nil, first.MerchantSalesID, first.ReferenceNo, first.PaymentReferenceNo)
		if err != nil {
			t.Fatalf("FindByNaturalKey failed unexpectedly: %v", err)
		}
		if found.Status != "PAID" {
			t.Errorf("expected original record to survive, but got status %q", found.Status)
		}
	})

	t.Run("should admit exactly one of many concurrent duplicates", func(t *testing.T) {
		cleanup(t)

		const callers = 16
		var wg sync.WaitGroup
		results := make([]bool, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				created, err := repo.Create(ctx, nil, newTestRecord())
				if err != nil {
					t.Errorf("concurrent Create failed: %v", err)
					return
				}
				results[i] = created
			}(i)
		}
		wg.Wait()

		winners := 0
		for _, created := range results {
			if created {
				winners++
			}
		}
		if winners != 1 {
			t.Fatalf("expected exactly 1 winning insert, but got %d", winners)
		}
	})
}

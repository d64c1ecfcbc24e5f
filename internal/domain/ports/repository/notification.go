package repository

import (
	"context"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
)

// NotificationRepository is the webhook idempotency/audit store.
type NotificationRepository interface {
	// FindByNaturalKey returns the stored record for the
	// (merchantSalesID, referenceNo, paymentReferenceNo) triple, or
	// domain.ErrNotFound when none exists.
	FindByNaturalKey(ctx context.Context, qx Tx, merchantSalesID, referenceNo, paymentReferenceNo string) (*model.NotificationRecord, error)

	// Create inserts a new record. The natural key is unique in the store;
	// a concurrent duplicate resolves to (false, nil) for all but exactly
	// one caller, which observes (true, nil).
	Create(ctx context.Context, qx Tx, rec *model.NotificationRecord) (created bool, err error)
}

// AuditLogRepository persists request/response payload pairs. Failures are
// swallowed by the sink, never by callers.
type AuditLogRepository interface {
	Save(ctx context.Context, qx Tx, entry *model.AuditEntry) error
}

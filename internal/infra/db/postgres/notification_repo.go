package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/repository"
)

var _ repository.NotificationRepository = (*notificationRepo)(nil)

type notificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *notificationRepo {
	return &notificationRepo{pool: pool}
}

func (r *notificationRepo) FindByNaturalKey(ctx context.Context, tx repository.Tx, merchantSalesID, referenceNo, paymentReferenceNo string) (*model.NotificationRecord, error) {
	const q = `
SELECT id, provider_code, merchant_sales_id, reference_no, payment_reference_no, amount, currency_id, status, order_no, raw_payload, received_at
  FROM webhook_notifications
 WHERE merchant_sales_id=$1 AND reference_no=$2 AND payment_reference_no=$3;`

	row, err := pickRow(ctx, r.pool, tx, q, merchantSalesID, referenceNo, paymentReferenceNo)
	if err != nil {
		return nil, err
	}

	rec := &model.NotificationRecord{}
	if err := row.Scan(&rec.ID, &rec.ProviderCode, &rec.MerchantSalesID, &rec.ReferenceNo, &rec.PaymentReferenceNo, &rec.Amount, &rec.CurrencyID, &rec.Status, &rec.OrderNo, &rec.RawPayload, &rec.ReceivedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return rec, nil
}

// Create relies on the unique index over the natural key to resolve the
// lookup-then-insert race: exactly one concurrent duplicate observes
// created=true, the rest see created=false.
func (r *notificationRepo) Create(ctx context.Context, tx repository.Tx, rec *model.NotificationRecord) (bool, error) {
	const q = `
INSERT INTO webhook_notifications (
  id, provider_code, merchant_sales_id, reference_no, payment_reference_no, amount, currency_id, status, order_no, raw_payload, received_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (merchant_sales_id, reference_no, payment_reference_no) DO NOTHING;`

	cmd, err := execSQL(ctx, r.pool, tx, q,
		rec.ID, rec.ProviderCode, rec.MerchantSalesID, rec.ReferenceNo, rec.PaymentReferenceNo,
		rec.Amount, rec.CurrencyID, rec.Status, rec.OrderNo, rec.RawPayload, rec.ReceivedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() == 1, nil
}

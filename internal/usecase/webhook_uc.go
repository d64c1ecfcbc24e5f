// File: internal/usecase/webhook_uc.go
package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/cache"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/repository"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/metrics"
)

// Webhook protocol error numbers. Never surfaced as HTTP errors: every
// outcome is a signed CSV line in a 200 response.
const (
	WebhookOK           = 0
	WebhookBadAPIKey    = 1
	WebhookBadSignature = 2
	WebhookRejected     = 3
)

// Compile-time check
var _ WebhookUseCase = (*webhookUC)(nil)

// Locker serializes bursts of identical natural keys; the store's unique
// index remains the authority on duplicates.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// WebhookOutcome is the engine's answer: the CSV fields in their fixed wire
// order, already signed with the response-side values.
type WebhookOutcome struct {
	ErrorNumber        int
	ResponseDateTime   string
	MerchantSalesID    string
	ReferenceNo        string
	CreationDateTime   string
	Amount             string
	CurrencyID         string
	PaymentReferenceNo string
	Status             string
	OrderNo            string
	Signature          string
}

// CSV renders the single response line:
// errorNumber,responseDateTime,merchantSalesId,referenceNo,creationDateTime,amount,currencyId,paymentReferenceNo,status,orderNo,signature
func (o WebhookOutcome) CSV() string {
	fields := []string{
		strconv.Itoa(o.ErrorNumber),
		o.ResponseDateTime,
		o.MerchantSalesID,
		o.ReferenceNo,
		o.CreationDateTime,
		o.Amount,
		o.CurrencyID,
		o.PaymentReferenceNo,
		o.Status,
		o.OrderNo,
		o.Signature,
	}
	return strings.Join(fields, ",")
}

// WebhookUseCase validates inbound provider confirmation calls and
// enforces at-most-once processing.
type WebhookUseCase interface {
	Confirm(ctx context.Context, n *model.WebhookNotification) WebhookOutcome
}

type webhookUC struct {
	enabled   bool
	providers *cache.WebhookProviderCache
	records   repository.NotificationRepository
	locker    Locker
	lockTTL   time.Duration
	log       *zerolog.Logger
	now       func() time.Time
}

func NewWebhookUseCase(enabled bool, providers *cache.WebhookProviderCache, records repository.NotificationRepository, locker Locker, lockTTL time.Duration, logger *zerolog.Logger) *webhookUC {
	l := logger.With().Str("component", "WebhookUC").Logger()
	return &webhookUC{
		enabled:   enabled,
		providers: providers,
		records:   records,
		locker:    locker,
		lockTTL:   lockTTL,
		log:       &l,
		now:       time.Now,
	}
}

// Confirm runs the validation state machine. Each check short-circuits;
// every outcome, including the rejections, comes back signed so the caller
// can verify the response origin.
func (u *webhookUC) Confirm(ctx context.Context, n *model.WebhookNotification) WebhookOutcome {
	if !u.enabled {
		return u.finish(n, WebhookRejected, "")
	}

	provider, ok := u.providers.Provider(n.ProviderCode)
	if !ok || !provider.Enabled {
		return u.finish(n, WebhookRejected, "")
	}

	if anyBlank(
		n.RequestDateTime, n.MerchantSalesID, n.ReferenceNo, n.CreationDateTime,
		n.Amount, n.CurrencyID, n.PaymentReferenceNo, n.Status, n.Signature,
	) {
		return u.finish(n, WebhookRejected, provider.Secret)
	}

	if !provider.IPAllowed(n.CallerIP) {
		u.log.Warn().Int64("provider", n.ProviderCode).Str("ip", n.CallerIP).Msg("webhook caller ip rejected")
		return u.finish(n, WebhookRejected, provider.Secret)
	}

	if provider.Secret == "" {
		return u.finish(n, WebhookRejected, provider.Secret)
	}

	if !u.apiKeyMatches(ctx, provider, n) {
		return u.finish(n, WebhookBadAPIKey, provider.Secret)
	}

	expected := ComputeWebhookSignature(
		n.RequestDateTime, n.MerchantSalesID, n.ReferenceNo, n.CreationDateTime,
		n.Amount, n.CurrencyID, n.PaymentReferenceNo, n.Status, provider.Secret,
	)
	if !strings.EqualFold(expected, strings.TrimSpace(n.Signature)) {
		return u.finish(n, WebhookBadSignature, provider.Secret)
	}

	if replay := u.record(ctx, n); replay {
		metrics.IncWebhookReplay(n.ProviderCode)
	}
	return u.finish(n, WebhookOK, provider.Secret)
}

// record persists the notification once per natural key and reports whether
// this call was an idempotent replay. Concurrent duplicates resolve to at
// most one "new" outcome: the store's unique index decides.
func (u *webhookUC) record(ctx context.Context, n *model.WebhookNotification) bool {
	key := "webhook:" + n.NaturalKey()
	if u.locker != nil {
		if token, err := u.locker.TryLock(ctx, key, u.lockTTL); err == nil {
			defer func() { _ = u.locker.Unlock(ctx, key, token) }()
		}
		// Lock acquisition failure is not fatal: the insert below is
		// conflict-safe on its own.
	}

	existing, err := u.records.FindByNaturalKey(ctx, nil, n.MerchantSalesID, n.ReferenceNo, n.PaymentReferenceNo)
	if err == nil && existing != nil {
		return true
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		u.log.Error().Err(err).Msg("webhook idempotency lookup failed")
	}

	rec := &model.NotificationRecord{
		ID:                 ulid.MustNew(ulid.Timestamp(u.now()), ulid.DefaultEntropy()).String(),
		ProviderCode:       n.ProviderCode,
		MerchantSalesID:    n.MerchantSalesID,
		ReferenceNo:        n.ReferenceNo,
		PaymentReferenceNo: n.PaymentReferenceNo,
		Amount:             n.Amount,
		CurrencyID:         n.CurrencyID,
		Status:             n.Status,
		OrderNo:            n.OrderNo,
		RawPayload:         rawPayload(n),
		ReceivedAt:         u.now(),
	}
	created, err := u.records.Create(ctx, nil, rec)
	if err != nil {
		u.log.Error().Err(err).Msg("webhook record insert failed")
		return false
	}
	return !created
}

func (u *webhookUC) apiKeyMatches(_ context.Context, provider model.WebhookProviderConfig, n *model.WebhookNotification) bool {
	return n.APIKey == provider.APIKey
}

// finish builds the outcome for the given error number, echoing the request
// fields and signing with the response-side values. When no provider config
// could be resolved the secret is empty and the signature still computes.
func (u *webhookUC) finish(n *model.WebhookNotification, errorNumber int, secret string) WebhookOutcome {
	out := WebhookOutcome{
		ErrorNumber:        errorNumber,
		ResponseDateTime:   u.now().Format(model.TimestampLayout),
		MerchantSalesID:    n.MerchantSalesID,
		ReferenceNo:        n.ReferenceNo,
		CreationDateTime:   n.CreationDateTime,
		Amount:             n.Amount,
		CurrencyID:         n.CurrencyID,
		PaymentReferenceNo: n.PaymentReferenceNo,
		Status:             n.Status,
		OrderNo:            n.OrderNo,
	}
	out.Signature = ComputeWebhookSignature(
		out.ResponseDateTime, out.MerchantSalesID, out.ReferenceNo, out.CreationDateTime,
		out.Amount, out.CurrencyID, out.PaymentReferenceNo, out.Status, secret,
	)
	metrics.IncWebhookOutcome(n.ProviderCode, errorNumber)
	return out
}

// ComputeWebhookSignature is SHA-256 over the concatenated parts with no
// separators, rendered as upper-case hex. The last part is the shared
// secret.
func ComputeWebhookSignature(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

func anyBlank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}

func rawPayload(n *model.WebhookNotification) map[string]any {
	return map[string]any{
		"request_datetime":     n.RequestDateTime,
		"merchant_sales_id":    n.MerchantSalesID,
		"reference_no":         n.ReferenceNo,
		"creation_datetime":    n.CreationDateTime,
		"amount":               n.Amount,
		"currency_id":          n.CurrencyID,
		"payment_reference_no": n.PaymentReferenceNo,
		"status":               n.Status,
		"order_no":             n.OrderNo,
	}
}

// File: internal/infra/audit/sink.go
package audit

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/adapter"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/repository"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/metrics"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/worker"
)

// Sink persists request/response payloads off the request path through the
// worker pool. A saturated queue drops the entry and bumps a counter; the
// caller is never slowed down or failed.
type Sink struct {
	pool *worker.Pool
	repo repository.AuditLogRepository
	log  *zerolog.Logger
	now  func() time.Time
}

var _ adapter.AuditSink = (*Sink)(nil)

func NewSink(pool *worker.Pool, repo repository.AuditLogRepository, logger *zerolog.Logger) *Sink {
	l := logger.With().Str("component", "AuditSink").Logger()
	return &Sink{pool: pool, repo: repo, log: &l, now: time.Now}
}

func (s *Sink) Record(providerCode int64, serviceKey string, direction model.Direction, payload map[string]any) {
	entry := &model.AuditEntry{
		ID:           ulid.MustNew(ulid.Timestamp(s.now()), ulid.DefaultEntropy()).String(),
		ProviderCode: providerCode,
		ServiceKey:   serviceKey,
		Direction:    direction,
		Payload:      payload,
		CreatedAt:    s.now().UTC(),
	}
	err := s.pool.Submit(func(ctx context.Context) error {
		if err := s.repo.Save(ctx, nil, entry); err != nil {
			metrics.IncAuditWritten(false)
			s.log.Error().Err(err).
				Int64("provider_code", entry.ProviderCode).
				Str("service_key", entry.ServiceKey).
				Msg("audit save failed")
			return nil
		}
		metrics.IncAuditWritten(true)
		return nil
	})
	if err != nil {
		metrics.IncAuditDropped()
		s.log.Warn().
			Int64("provider_code", providerCode).
			Str("service_key", serviceKey).
			Msg("audit entry dropped, queue full")
	}
}

package adapter

import "github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"

// AuditSink receives request/response payload pairs, fire-and-forget.
// Implementations must never let a logging failure reach the caller.
type AuditSink interface {
	Record(providerCode int64, serviceKey string, direction model.Direction, payload map[string]any)
}

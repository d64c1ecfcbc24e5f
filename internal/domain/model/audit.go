package model

import "time"

// AuditEntry is one request/response payload pair captured around an
// outbound provider exchange. Entries are insert-only.
type AuditEntry struct {
	ID           string // ULID
	ProviderCode int64
	ServiceKey   string
	Direction    Direction
	Payload      map[string]any
	CreatedAt    time.Time
}

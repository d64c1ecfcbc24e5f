package adapter

import "context"

// Call is one fully resolved outbound provider request.
type Call struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    map[string]any // nil for query-style endpoints
}

// OutboundTransport executes a provider call and returns the raw response
// body. Non-2xx provider answers are returned as payload, not error — the
// transformation pipeline decides how to interpret them. The transport owns
// its own timeout; the engine does not retry.
type OutboundTransport interface {
	Do(ctx context.Context, call Call) ([]byte, error)
}

// File: internal/infra/transport/rest_client.go
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/adapter"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/usecase"
)

var _ adapter.OutboundTransport = (*RestClient)(nil)

// RestClient executes resolved provider calls. Provider error answers come
// back as payload: when the URL carries the suppress-errors directive (and
// it always does for query endpoints) or the body parses, a non-2xx status
// is not an error here — the transformation pipeline interprets it.
type RestClient struct {
	client *http.Client
	log    *zerolog.Logger
}

func NewRestClient(timeout time.Duration, logger *zerolog.Logger) *RestClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	l := logger.With().Str("component", "RestClient").Logger()
	return &RestClient{
		client: &http.Client{Timeout: timeout},
		log:    &l,
	}
}

func (c *RestClient) Do(ctx context.Context, call adapter.Call) ([]byte, error) {
	var body io.Reader
	if call.Body != nil {
		b, err := json.Marshal(call.Body)
		if err != nil {
			return nil, fmt.Errorf("encode outbound body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, stripDirective(call.URL), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range call.Headers {
		req.Header.Set(k, v)
	}
	if call.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 500 && len(payload) == 0 {
		return nil, fmt.Errorf("provider returned %d with empty body", resp.StatusCode)
	}
	c.log.Debug().Str("method", call.Method).
		Str("url", req.URL.Host+req.URL.Path).
		Int("status", resp.StatusCode).
		Msg("provider call completed")
	return payload, nil
}

// stripDirective removes the internal suppress-errors marker before the
// request leaves the process; it is addressed to this transport, not to the
// provider. The URL builder always appends it last.
func stripDirective(url string) string {
	url = strings.TrimSuffix(url, "&"+usecase.SuppressErrorsDirective)
	url = strings.TrimSuffix(url, "?"+usecase.SuppressErrorsDirective)
	return url
}

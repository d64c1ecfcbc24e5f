// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/adapter"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/metrics"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/mapping"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// PaymentUseCase relays canonical API calls to the configured provider
// endpoint: resolve the call shape, build the outbound payload, execute,
// normalize the answer.
type PaymentUseCase interface {
	// Initiate relays an online-payment initiation.
	Initiate(ctx context.Context, req *model.PaymentRequest) (*model.PaymentResponse, error)
	// Status relays a payment-status query (query-parameter endpoint).
	Status(ctx context.Context, req *model.StatusRequest) (*model.PaymentResponse, error)
	// NotifyMerchantEvent relays a merchant event to the provider.
	NotifyMerchantEvent(ctx context.Context, ev *model.MerchantEvent) (*model.PaymentResponse, error)
}

type paymentUC struct {
	endpoints EndpointUseCase
	transform TransformUseCase
	transport adapter.OutboundTransport
	audit     adapter.AuditSink
	log       *zerolog.Logger
}

func NewPaymentUseCase(endpoints EndpointUseCase, transform TransformUseCase, transport adapter.OutboundTransport, audit adapter.AuditSink, logger *zerolog.Logger) *paymentUC {
	l := logger.With().Str("component", "PaymentUC").Logger()
	return &paymentUC{
		endpoints: endpoints,
		transform: transform,
		transport: transport,
		audit:     audit,
		log:       &l,
	}
}

func (u *paymentUC) Initiate(ctx context.Context, req *model.PaymentRequest) (*model.PaymentResponse, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	runtime := map[string]any{
		model.SystemValueOperationID: req.RequestID,
	}
	return u.dispatch(ctx, req.ProviderCode, req.ServiceKeyOrDefault(), req.ProviderName, req, runtime)
}

func (u *paymentUC) Status(ctx context.Context, req *model.StatusRequest) (*model.PaymentResponse, error) {
	runtime := map[string]any{
		model.SystemValueOperationID: req.OperationID,
	}
	return u.dispatch(ctx, req.ProviderCode, model.ServiceKeyPaymentStatus, req.ProviderName, req, runtime)
}

func (u *paymentUC) NotifyMerchantEvent(ctx context.Context, ev *model.MerchantEvent) (*model.PaymentResponse, error) {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	runtime := map[string]any{
		model.SystemValueOperationID: ev.EventID,
	}
	return u.dispatch(ctx, ev.ProviderCode, model.ServiceKeyMerchantEvents, ev.ProviderName, ev, runtime)
}

// dispatch is the single outbound path: endpoint resolution, payload build,
// transport call, normalization. Configuration errors fail the request;
// provider error payloads come back normalized, never as transport errors.
func (u *paymentUC) dispatch(ctx context.Context, providerCode int64, serviceKey, providerName string, canonical any, runtime map[string]any) (*model.PaymentResponse, error) {
	cfg, ok := u.endpoints.ActiveConfig(providerCode, serviceKey)
	if !ok {
		metrics.IncDispatch(serviceKey, providerCode, "config_error")
		return nil, fmt.Errorf("%w: provider=%d service=%s", domain.ErrNoActiveEndpoint, providerCode, serviceKey)
	}
	headers, err := u.endpoints.Headers(providerCode)
	if err != nil {
		metrics.IncDispatch(serviceKey, providerCode, "config_error")
		return nil, err
	}

	call := adapter.Call{Method: cfg.HTTPMethod, URL: cfg.URI, Headers: headers}
	if strings.EqualFold(cfg.RequestType, "QUERY") {
		params, err := u.endpoints.QueryParams(providerCode, serviceKey, runtime)
		if err != nil {
			metrics.IncDispatch(serviceKey, providerCode, "config_error")
			return nil, err
		}
		call.URL = u.endpoints.BuildURL(cfg.URI, params)
	} else {
		body, err := u.transform.BuildOutbound(canonical, providerCode, serviceKey, providerName, runtime)
		if err != nil {
			metrics.IncDispatch(serviceKey, providerCode, "transform_error")
			return nil, err
		}
		call.Body = body
		u.audit.Record(providerCode, serviceKey, model.DirectionRequest, body)
	}

	start := time.Now()
	raw, err := u.transport.Do(ctx, call)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		metrics.ObserveDispatchLatency(serviceKey, latency, false)
		metrics.IncDispatch(serviceKey, providerCode, "transport_error")
		return nil, fmt.Errorf("%w: %v", domain.ErrTransportFailed, err)
	}
	metrics.ObserveDispatchLatency(serviceKey, latency, true)

	normalized, err := u.transform.Normalize(raw, providerCode, serviceKey, providerName)
	if err != nil {
		metrics.IncDispatch(serviceKey, providerCode, "transform_error")
		return nil, err
	}
	u.audit.Record(providerCode, serviceKey, model.DirectionResponse, normalized)

	resp := decodeResponse(normalized)
	if resp.ErrorMessage == "" {
		// Pull the provider's error detail, if any, from the raw payload.
		if src, cerr := rawTree(raw); cerr == nil {
			if v, ok := mapping.Get(src, u.transform.ErrorPath(providerCode, serviceKey, providerName)); ok && v != nil {
				resp.ErrorMessage = fmt.Sprintf("%v", v)
			}
		}
	}
	metrics.IncDispatch(serviceKey, providerCode, "ok")
	return resp, nil
}

// decodeResponse lifts the canonical tree into the typed response container.
func decodeResponse(tree map[string]any) *model.PaymentResponse {
	resp := &model.PaymentResponse{Raw: tree}
	b, err := json.Marshal(tree)
	if err != nil {
		return resp
	}
	_ = json.Unmarshal(b, resp)
	resp.Raw = tree
	return resp
}

func rawTree(raw any) (map[string]any, error) {
	switch t := raw.(type) {
	case map[string]any:
		return t, nil
	case []byte:
		var m map[string]any
		if err := json.Unmarshal(t, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported payload type %T", raw)
	}
}

// File: internal/usecase/endpoint_uc.go
package usecase

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/cache"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
)

// SuppressErrorsDirective is appended to every query-style endpoint URL so
// the transport hands provider error payloads back to the transformation
// pipeline instead of failing on non-2xx statuses.
const SuppressErrorsDirective = "suppressErrors=true"

// Compile-time check
var _ EndpointUseCase = (*endpointUC)(nil)

// QueryParam is one resolved, stringified query parameter. Order follows
// definition load order.
type QueryParam struct {
	Key   string
	Value string
}

// DefaultField is one resolved default body field, kept as a typed value.
type DefaultField struct {
	Key   string
	Value any
}

// EndpointUseCase resolves the active REST call shape for a
// (provider, service) pair out of the configuration snapshots.
type EndpointUseCase interface {
	// ActiveConfig returns the config iff it satisfies the activity
	// invariant, else false.
	ActiveConfig(providerCode int64, serviceKey string) (model.EndpointConfig, bool)
	// QueryParams resolves QUERY definitions against runtime values. An
	// empty resolved set is a configuration error, not "no params needed".
	QueryParams(providerCode int64, serviceKey string, runtime map[string]any) ([]QueryParam, error)
	// Defaults resolves DEFAULTS definitions; an empty result is valid.
	Defaults(providerCode int64, serviceKey string, runtime map[string]any) []DefaultField
	// Headers returns the provider's outbound header map; an empty map is
	// a configuration error.
	Headers(providerCode int64) (map[string]string, error)
	// BuildURL appends resolved query parameters plus the suppress-errors
	// transport directive to the base URI.
	BuildURL(baseURI string, params []QueryParam) string
}

type endpointUC struct {
	endpoints   *cache.EndpointCache
	definitions *cache.DefinitionCache
	headers     *cache.HeaderCache
	log         *zerolog.Logger
	now         func() time.Time
}

func NewEndpointUseCase(endpoints *cache.EndpointCache, definitions *cache.DefinitionCache, headers *cache.HeaderCache, logger *zerolog.Logger) *endpointUC {
	l := logger.With().Str("component", "EndpointUC").Logger()
	return &endpointUC{
		endpoints:   endpoints,
		definitions: definitions,
		headers:     headers,
		log:         &l,
		now:         time.Now,
	}
}

func (u *endpointUC) ActiveConfig(providerCode int64, serviceKey string) (model.EndpointConfig, bool) {
	return u.endpoints.ActiveConfig(providerCode, serviceKey)
}

func (u *endpointUC) QueryParams(providerCode int64, serviceKey string, runtime map[string]any) ([]QueryParam, error) {
	defs := u.definitions.QueryDefinitions(providerCode, serviceKey)
	params := make([]QueryParam, 0, len(defs))
	for _, def := range defs {
		v := u.resolveDefinition(def, runtime)
		if v == nil {
			continue
		}
		params = append(params, QueryParam{Key: def.Key, Value: stringify(v)})
	}
	if len(params) == 0 {
		// A QUERY endpoint with zero resolvable parameters is misconfigured.
		return nil, fmt.Errorf("%w: provider=%d service=%s", domain.ErrNoQueryParams, providerCode, serviceKey)
	}
	return params, nil
}

func (u *endpointUC) Defaults(providerCode int64, serviceKey string, runtime map[string]any) []DefaultField {
	defs := u.definitions.DefaultDefinitions(providerCode, serviceKey)
	out := make([]DefaultField, 0, len(defs))
	for _, def := range defs {
		v := u.resolveDefinition(def, runtime)
		if v == nil {
			continue
		}
		out = append(out, DefaultField{Key: def.Key, Value: v})
	}
	return out
}

func (u *endpointUC) Headers(providerCode int64) (map[string]string, error) {
	h := u.headers.Headers(providerCode)
	if len(h) == 0 {
		return nil, fmt.Errorf("%w: provider=%d", domain.ErrNoHeaders, providerCode)
	}
	return h, nil
}

func (u *endpointUC) BuildURL(baseURI string, params []QueryParam) string {
	var b strings.Builder
	b.WriteString(baseURI)
	sep := "?"
	if strings.Contains(baseURI, "?") {
		sep = "&"
	}
	for _, p := range params {
		b.WriteString(sep)
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteString("=")
		b.WriteString(url.QueryEscape(p.Value))
		sep = "&"
	}
	b.WriteString(sep)
	b.WriteString(SuppressErrorsDirective)
	return b.String()
}

// resolveDefinition applies the system-value precedence: a runtime value
// named by SystemValueRef wins; "now" with no runtime value resolves to the
// current timestamp; otherwise the static default applies.
func (u *endpointUC) resolveDefinition(def model.WsDefinition, runtime map[string]any) any {
	if def.SystemValueRef != "" {
		if v, ok := runtime[def.SystemValueRef]; ok && v != nil {
			return v
		}
		if def.SystemValueRef == model.SystemValueNow {
			return u.now().Format(model.TimestampLayout)
		}
	}
	return def.DefaultValue
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

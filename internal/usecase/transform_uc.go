// File: internal/usecase/transform_uc.go
package usecase

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/mapping"
)

// RequestDatetimeField is stamped on every outbound payload.
const RequestDatetimeField = "request_datetime"

// itemSegment namespaces per-item sub-mappings of list-valued fields inside
// mapping-rule paths ("payable_amounts.item.amount").
const itemSegment = ".item."

// Compile-time check
var _ TransformUseCase = (*transformUC)(nil)

// TransformUseCase builds outbound provider payloads from canonical
// requests and normalizes provider payloads back into the canonical schema.
type TransformUseCase interface {
	// BuildOutbound flattens the canonical request, applies REQUEST mapping
	// rules, then endpoint DEFAULTS (defaults win on path collisions since
	// they are applied second), and stamps the generation timestamp.
	BuildOutbound(canonical any, providerCode int64, serviceKey, providerName string, runtime map[string]any) (map[string]any, error)

	// Normalize coerces a raw provider payload to a generic tree and applies
	// RESPONSE mapping rules, including per-item list remapping and one
	// extra level of nested list remapping. An unparsable payload is a hard
	// error; an absent field is not.
	Normalize(raw any, providerCode int64, serviceKey, providerName string) (map[string]any, error)

	// ErrorPath exposes the resolver's provider error-detail path.
	ErrorPath(providerCode int64, serviceKey, providerName string) string
}

type transformUC struct {
	resolver  *mapping.Resolver
	endpoints EndpointUseCase
	log       *zerolog.Logger
	now       func() time.Time
}

func NewTransformUseCase(resolver *mapping.Resolver, endpoints EndpointUseCase, logger *zerolog.Logger) *transformUC {
	l := logger.With().Str("component", "TransformUC").Logger()
	return &transformUC{resolver: resolver, endpoints: endpoints, log: &l, now: time.Now}
}

func (u *transformUC) BuildOutbound(canonical any, providerCode int64, serviceKey, providerName string, runtime map[string]any) (map[string]any, error) {
	src, err := toTree(canonical)
	if err != nil {
		return nil, fmt.Errorf("flatten canonical request: %w", err)
	}

	out := make(map[string]any)
	for _, pair := range u.resolver.RequestPairs(providerCode, serviceKey, providerName) {
		if v, ok := mapping.Get(src, pair.Source); ok && v != nil {
			mapping.Set(out, pair.Target, v)
		}
	}

	// Defaults are applied after mapping; a non-nil default overwrites a
	// mapped value for the same path.
	for _, def := range u.endpoints.Defaults(providerCode, serviceKey, runtime) {
		mapping.Set(out, def.Key, def.Value)
	}

	mapping.Set(out, RequestDatetimeField, u.now().Format(model.TimestampLayout))
	return out, nil
}

func (u *transformUC) Normalize(raw any, providerCode int64, serviceKey, providerName string) (map[string]any, error) {
	src, err := coerceTree(raw)
	if err != nil {
		return nil, err
	}

	pairs := u.resolver.ResponsePairs(providerCode, serviceKey, providerName)
	scalars, lists := splitPairs(pairs)

	out := make(map[string]any)
	for _, pair := range scalars {
		if v, ok := mapping.Get(src, pair.Source); ok && v != nil {
			mapping.Set(out, pair.Target, v)
		}
	}
	for _, group := range lists {
		raw, ok := mapping.Get(src, group.sourceList)
		if !ok {
			continue
		}
		elems, ok := raw.([]any)
		if !ok {
			continue
		}
		mapping.Set(out, group.targetList, remapItems(elems, group.subPairs))
	}
	return out, nil
}

func (u *transformUC) ErrorPath(providerCode int64, serviceKey, providerName string) string {
	return u.resolver.ErrorPath(providerCode, serviceKey, providerName)
}

// listGroup is one list-valued field with its per-item sub-mapping.
type listGroup struct {
	targetList string
	sourceList string
	subPairs   []mapping.Pair
}

// splitPairs separates scalar pairs from list groups. A pair belongs to a
// list group when both its paths carry an ".item." segment; the group key
// is the path prefix before the first such segment.
func splitPairs(pairs []mapping.Pair) ([]mapping.Pair, []listGroup) {
	var scalars []mapping.Pair
	var lists []listGroup
	index := make(map[string]int)
	for _, p := range pairs {
		ti := strings.Index(p.Target, itemSegment)
		si := strings.Index(p.Source, itemSegment)
		if ti < 0 || si < 0 {
			scalars = append(scalars, p)
			continue
		}
		tList, sList := p.Target[:ti], p.Source[:si]
		sub := mapping.Pair{
			Target: p.Target[ti+len(itemSegment):],
			Source: p.Source[si+len(itemSegment):],
		}
		key := tList + "\x00" + sList
		if at, ok := index[key]; ok {
			lists[at].subPairs = append(lists[at].subPairs, sub)
			continue
		}
		index[key] = len(lists)
		lists = append(lists, listGroup{targetList: tList, sourceList: sList, subPairs: []mapping.Pair{sub}})
	}
	return scalars, lists
}

// remapItems rebuilds every map element of a provider list through the
// group's sub-pairs. Sub-pairs carrying a further ".item." segment remap a
// nested list one level deeper: the nested list is replaced in the built
// parent item while its other fields stay as produced by the scalar
// sub-pairs.
func remapItems(elems []any, pairs []mapping.Pair) []map[string]any {
	scalars, nested := splitPairs(pairs)
	out := make([]map[string]any, 0, len(elems))
	for _, el := range elems {
		src, ok := el.(map[string]any)
		if !ok {
			continue
		}
		item := make(map[string]any)
		for _, p := range scalars {
			if v, ok := mapping.Get(src, p.Source); ok && v != nil {
				mapping.Set(item, p.Target, v)
			}
		}
		for _, group := range nested {
			raw, ok := mapping.Get(src, group.sourceList)
			if !ok {
				continue
			}
			inner, ok := raw.([]any)
			if !ok {
				continue
			}
			mapping.Set(item, group.targetList, remapItems(inner, group.subPairs))
		}
		out = append(out, item)
	}
	return out
}

// toTree flattens any canonical value to a generic tree via JSON.
func toTree(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// coerceTree accepts a structured payload as-is and parses textual or
// binary JSON. Parse failure is a hard error, distinct from "field absent".
func coerceTree(raw any) (map[string]any, error) {
	switch t := raw.(type) {
	case map[string]any:
		return t, nil
	case []byte:
		var m map[string]any
		if err := json.Unmarshal(t, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnparsablePayload, err)
		}
		return m, nil
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(t), &m); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnparsablePayload, err)
		}
		return m, nil
	case nil:
		return nil, fmt.Errorf("%w: empty payload", domain.ErrUnparsablePayload)
	default:
		return nil, fmt.Errorf("%w: unsupported payload type %T", domain.ErrUnparsablePayload, raw)
	}
}

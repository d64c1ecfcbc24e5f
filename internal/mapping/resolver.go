package mapping

import (
	"strings"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
)

// RuleSource serves load-ordered mapping rules for one exact
// (provider, serviceKey, operation, direction) group. The snapshot caches
// implement it.
type RuleSource interface {
	Rules(providerCode int64, serviceKey, operation string, direction model.Direction) []model.MappingRule
}

// Pair is one (target, source) path pair ready for the path engine.
type Pair struct {
	Target string
	Source string
}

// Resolver resolves field-mapping rules with provider-specific vs DEFAULT
// precedence.
type Resolver struct {
	src RuleSource
}

func NewResolver(src RuleSource) *Resolver {
	return &Resolver{src: src}
}

// Resolve returns the rules for (providerCode, serviceKey, operation,
// direction) where operation is derived from providerName. A non-empty
// provider-specific set fully replaces the DEFAULT set — never merged.
func (r *Resolver) Resolve(providerCode int64, serviceKey, providerName string, direction model.Direction) []model.MappingRule {
	key := NormalizeServiceKey(serviceKey)
	op := NormalizeOperation(providerName)
	if op != model.OperationDefault {
		if rules := r.src.Rules(providerCode, key, op, direction); len(rules) > 0 {
			return rules
		}
	}
	return r.src.Rules(providerCode, key, model.OperationDefault, direction)
}

// RequestPairs returns BODY/BODY REQUEST rules as (target=external,
// source=app) pairs: where each outbound field comes from in the canonical
// request.
func (r *Resolver) RequestPairs(providerCode int64, serviceKey, providerName string) []Pair {
	var out []Pair
	for _, rule := range r.Resolve(providerCode, serviceKey, providerName, model.DirectionRequest) {
		if !rule.BodyRule() {
			continue
		}
		out = append(out, Pair{Target: rule.ExtAttribute, Source: rule.AppAttribute})
	}
	return out
}

// ResponsePairs returns BODY/BODY RESPONSE rules as (target=app,
// source=external) pairs: where each canonical field comes from in the
// provider response.
func (r *Resolver) ResponsePairs(providerCode int64, serviceKey, providerName string) []Pair {
	var out []Pair
	for _, rule := range r.Resolve(providerCode, serviceKey, providerName, model.DirectionResponse) {
		if !rule.BodyRule() {
			continue
		}
		out = append(out, Pair{Target: rule.AppAttribute, Source: rule.ExtAttribute})
	}
	return out
}

// ErrorPath returns the external path holding a provider's error detail.
// Preference order: the ERROR rule whose app attribute is "error"
// (case-insensitive, BODY/BODY, non-blank external attribute), then the
// first ERROR rule's external attribute, then the literal "error".
func (r *Resolver) ErrorPath(providerCode int64, serviceKey, providerName string) string {
	rules := r.Resolve(providerCode, serviceKey, providerName, model.DirectionError)
	for _, rule := range rules {
		if strings.EqualFold(rule.AppAttribute, "error") && rule.BodyRule() && strings.TrimSpace(rule.ExtAttribute) != "" {
			return rule.ExtAttribute
		}
	}
	if len(rules) > 0 && strings.TrimSpace(rules[0].ExtAttribute) != "" {
		return rules[0].ExtAttribute
	}
	return "error"
}

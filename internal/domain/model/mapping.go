package model

// Direction tells which side of a provider exchange a mapping rule applies to.
type Direction string

const (
	DirectionRequest  Direction = "REQUEST"
	DirectionResponse Direction = "RESPONSE"
	DirectionError    Direction = "ERROR"
)

// SectionBody is the only section participating in body mapping today; other
// sections are loaded but ignored by the body-mapping consumers.
const SectionBody = "BODY"

// OperationDefault is the fallback operation token used when no
// provider-specific rule set exists.
const OperationDefault = "DEFAULT"

// MappingRule translates one field between the canonical schema and a
// provider schema. Attribute values are dot-separated paths into the
// respective payload trees ("payment.amount", "data.locations.item.code").
type MappingRule struct {
	ID           int64
	Order        int
	ProviderCode int64
	ServiceKey   string
	Operation    string // normalized provider-name token or OperationDefault
	Direction    Direction
	AppSection   string
	AppAttribute string
	ExtSection   string
	ExtAttribute string
}

// BodyRule reports whether the rule participates in request/response body
// mapping (both sections BODY).
func (r MappingRule) BodyRule() bool {
	return r.AppSection == SectionBody && r.ExtSection == SectionBody
}

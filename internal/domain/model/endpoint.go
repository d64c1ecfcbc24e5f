package model

// ConnectionTypeREST is the only connection type the dispatcher calls out on.
// Rows with any other connection type are loaded but never considered active.
const ConnectionTypeREST = "REST"

// EndpointConfig describes the REST call shape for one (provider, service)
// pair. The whole row set lives in the configuration store and is served
// from an in-memory snapshot; changing a provider's contract is a data
// change, not a deployment.
type EndpointConfig struct {
	ProviderCode   int64
	ServiceKey     string // normalized ws key, e.g. "payments", "getbanks"
	Enabled        bool
	ConnectionType string // only ConnectionTypeREST is dispatchable
	HTTPMethod     string // GET | POST | PUT ...
	RequestType    string // "BODY" | "QUERY"
	URI            string
}

// Active reports whether this config may be dispatched: REST, enabled, and
// with a usable method and URI. Everything else is treated as absent.
func (c EndpointConfig) Active() bool {
	return c.Enabled &&
		c.ConnectionType == ConnectionTypeREST &&
		c.HTTPMethod != "" &&
		c.URI != ""
}

// DefinitionKind separates query-string parameters from default body fields.
type DefinitionKind string

const (
	DefinitionKindQuery    DefinitionKind = "QUERY"
	DefinitionKindDefaults DefinitionKind = "DEFAULTS"
)

// System value references a WsDefinition may name instead of carrying a
// static default. "now" resolves to the current timestamp when the caller
// supplies no runtime value.
const (
	SystemValueNow         = "now"
	SystemValueOperationID = "operation_id"
)

// WsDefinition is one query parameter or default body field for a
// (provider, service) pair. When SystemValueRef is set the runtime value it
// names is preferred over DefaultValue.
type WsDefinition struct {
	ProviderCode   int64
	ServiceKey     string
	Key            string
	DefaultValue   any
	Kind           DefinitionKind
	SystemValueRef string
}

// HeaderEntry is one outbound HTTP header for a provider. Rows with a blank
// name or value are dropped at load time.
type HeaderEntry struct {
	ProviderCode int64
	Name         string
	Value        string
}

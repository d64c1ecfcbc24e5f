package model

import "time"

// Well-known service keys. Keys are free-form data in the configuration
// store; these constants only name the ones the canonical API exposes.
const (
	ServiceKeyPayments       = "payments"
	ServiceKeyGetBanks       = "getbanks"
	ServiceKeyPaymentStatus  = "payment-status"
	ServiceKeyMerchantEvents = "merchant-events"
	ServiceKeyDirectOnline   = "direct-online-payment-requests"
)

// TimestampLayout is the fixed wire format for generated timestamps
// (request stamping, "now" system values, webhook response date-times).
const TimestampLayout = "2006-01-02T15:04:05"

// PaymentRequest is the canonical online-payment initiation request. Field
// names here are this service's own schema; per-provider names come from
// mapping rules, not code.
type PaymentRequest struct {
	RequestID       string         `json:"request_id"`
	ProviderCode    int64          `json:"provider_code"`
	ProviderName    string         `json:"provider_name"`
	ServiceKey      string         `json:"service_key,omitempty"` // defaults to "payments"
	MerchantSalesID string         `json:"merchant_sales_id"`
	Amount          string         `json:"amount"`
	CurrencyID      string         `json:"currency_id"`
	BankCode        string         `json:"bank_code,omitempty"`
	CustomerName    string         `json:"customer_name,omitempty"`
	CustomerEmail   string         `json:"customer_email,omitempty"`
	Description     string         `json:"description,omitempty"`
	CallbackURL     string         `json:"callback_url,omitempty"`
	Extra           map[string]any `json:"extra,omitempty"`
}

// ServiceKeyOrDefault returns the requested service key, defaulting to the
// standard payments operation. Direct-online flows pass ServiceKeyDirectOnline.
func (r PaymentRequest) ServiceKeyOrDefault() string {
	if r.ServiceKey != "" {
		return r.ServiceKey
	}
	return ServiceKeyPayments
}

// PaymentResponse is the canonical normalized provider answer. List-valued
// fields carry remapped generic trees so provider-specific item shapes stay
// out of the canonical schema.
type PaymentResponse struct {
	RequestID        string           `json:"request_id,omitempty"`
	ResponseDatetime string           `json:"response_datetime,omitempty"`
	ReferenceNo      string           `json:"reference_no,omitempty"`
	PaymentURL       string           `json:"payment_url,omitempty"`
	Status           string           `json:"status,omitempty"`
	ErrorCode        string           `json:"error_code,omitempty"`
	ErrorMessage     string           `json:"error_message,omitempty"`
	PayableAmounts   []map[string]any `json:"payable_amounts,omitempty"`
	PaymentLocations []map[string]any `json:"payment_locations,omitempty"`
	Raw              map[string]any   `json:"-"`
}

// StatusRequest is the canonical payment-status query.
type StatusRequest struct {
	OperationID  string `json:"operation_id"`
	ProviderCode int64  `json:"provider_code"`
	ProviderName string `json:"provider_name"`
}

// MerchantEvent is the canonical merchant-event notification relayed to a
// provider.
type MerchantEvent struct {
	EventID      string         `json:"event_id"`
	ProviderCode int64          `json:"provider_code"`
	ProviderName string         `json:"provider_name"`
	EventType    string         `json:"event_type"`
	MerchantID   string         `json:"merchant_id"`
	OccurredAt   time.Time      `json:"occurred_at"`
	Payload      map[string]any `json:"payload,omitempty"`
}

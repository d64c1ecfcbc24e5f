package model

import "time"

// WebhookProviderConfig holds the per-provider credentials and restrictions
// used to validate inbound confirmation calls. ApiKey and Secret are stored
// encrypted in the configuration store and arrive here already decrypted.
type WebhookProviderConfig struct {
	ProviderCode  int64
	ProviderName  string
	Enabled       bool
	APIKey        string
	Secret        string
	SignatureMode string
	AllowedIPs    []string // empty means any caller IP is accepted
}

// IPAllowed reports whether ip may call the webhook for this provider.
func (c WebhookProviderConfig) IPAllowed(ip string) bool {
	if len(c.AllowedIPs) == 0 {
		return true
	}
	for _, allowed := range c.AllowedIPs {
		if allowed == ip {
			return true
		}
	}
	return false
}

// WebhookNotification is the parsed body of one inbound confirmation call.
type WebhookNotification struct {
	ProviderCode       int64
	RequestDateTime    string
	MerchantSalesID    string
	ReferenceNo        string
	CreationDateTime   string
	Amount             string
	CurrencyID         string
	PaymentReferenceNo string
	Status             string
	OrderNo            string
	Signature          string
	APIKey             string // supplied credential, compared to the configured one
	CallerIP           string
}

// NaturalKey joins the three fields that identify a notification for
// deduplication purposes.
func (n WebhookNotification) NaturalKey() string {
	return n.MerchantSalesID + "|" + n.ReferenceNo + "|" + n.PaymentReferenceNo
}

// NotificationRecord is the stored trail of one accepted webhook. Records
// are created once per unique natural key and never mutated or deleted.
type NotificationRecord struct {
	ID                 string // ULID
	ProviderCode       int64
	MerchantSalesID    string
	ReferenceNo        string
	PaymentReferenceNo string
	Amount             string
	CurrencyID         string
	Status             string
	OrderNo            string
	RawPayload         map[string]any
	ReceivedAt         time.Time
}

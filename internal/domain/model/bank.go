package model

// Bank is one entry of a provider's bank catalog. Disabled rows are dropped
// at snapshot load.
type Bank struct {
	ProviderCode int64
	BankCode     string
	BankName     string
	Enabled      bool
}

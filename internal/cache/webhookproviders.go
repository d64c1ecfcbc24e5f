package cache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/ports/repository"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/metrics"
)

// Decryptor opens the encrypted credential columns at load time.
type Decryptor interface {
	Decrypt(ciphertext string) (string, error)
}

type webhookProviderSnapshot struct {
	byCode map[int64]model.WebhookProviderConfig
}

// WebhookProviderCache serves webhook provider configs keyed by provider
// code. Credentials are decrypted once per refresh; a row that fails
// decryption is dropped from the snapshot.
type WebhookProviderCache struct {
	*Snapshot[webhookProviderSnapshot]
}

func NewWebhookProviderCache(store repository.WebhookProviderStore, dec Decryptor, logger *zerolog.Logger) *WebhookProviderCache {
	loadLog := logger.With().Str("cache", "webhook_providers").Logger()
	load := func(ctx context.Context) (webhookProviderSnapshot, error) {
		rows, err := store.LoadWebhookProviders(ctx)
		if err != nil {
			return webhookProviderSnapshot{}, err
		}
		snap := webhookProviderSnapshot{byCode: make(map[int64]model.WebhookProviderConfig, len(rows))}
		for _, row := range rows {
			if dec != nil {
				if row.APIKey, err = decryptIfSet(dec, row.APIKey); err != nil {
					loadLog.Warn().Err(err).Int64("provider", row.ProviderCode).Msg("dropping provider: api key decryption failed")
					continue
				}
				if row.Secret, err = decryptIfSet(dec, row.Secret); err != nil {
					loadLog.Warn().Err(err).Int64("provider", row.ProviderCode).Msg("dropping provider: secret decryption failed")
					continue
				}
			}
			snap.byCode[row.ProviderCode] = row
		}
		return snap, nil
	}
	return &WebhookProviderCache{Snapshot: New("webhook_providers", load, logger)}
}

func decryptIfSet(dec Decryptor, v string) (string, error) {
	if v == "" {
		return "", nil
	}
	return dec.Decrypt(v)
}

func (c *WebhookProviderCache) Provider(providerCode int64) (model.WebhookProviderConfig, bool) {
	snap := c.Current()
	cfg, ok := snap.byCode[providerCode]
	metrics.IncCacheLookup(c.Name(), ok)
	return cfg, ok
}

package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(webhookOutcomesTotal, webhookReplaysTotal) }

var (
	// code: 0|1|2|3 per the provider webhook protocol
	webhookOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_outcomes_total",
			Help: "Webhook confirmation outcomes by provider and error code.",
		},
		[]string{"provider", "code"},
	)

	webhookReplaysTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_replays_total",
			Help: "Idempotent webhook resubmissions by provider.",
		},
		[]string{"provider"},
	)
)

func IncWebhookOutcome(providerCode int64, errorNumber int) {
	webhookOutcomesTotal.WithLabelValues(strconv.FormatInt(providerCode, 10), strconv.Itoa(errorNumber)).Inc()
}

func IncWebhookReplay(providerCode int64) {
	webhookReplaysTotal.WithLabelValues(strconv.FormatInt(providerCode, 10)).Inc()
}

package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(dispatchTotal, dispatchLatencyMs) }

var (
	// result: ok|config_error|transport_error|transform_error
	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_dispatch_total",
			Help: "Outbound provider dispatches by service key and result.",
		},
		[]string{"service", "provider", "result"},
	)

	dispatchLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_dispatch_latency_ms",
			Help:    "Outbound provider call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"service", "success"},
	)
)

func IncDispatch(service string, providerCode int64, result string) {
	dispatchTotal.WithLabelValues(norm(service), strconv.FormatInt(providerCode, 10), norm(result)).Inc()
}

func ObserveDispatchLatency(service string, latencyMs int64, success bool) {
	dispatchLatencyMs.WithLabelValues(norm(service), strconv.FormatBool(success)).Observe(float64(latencyMs))
}

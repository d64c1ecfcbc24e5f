package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(auditDroppedTotal, auditWrittenTotal) }

var (
	auditDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_entries_dropped_total",
			Help: "Audit entries dropped because the sink queue was saturated.",
		},
	)

	auditWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_entries_written_total",
			Help: "Audit entries persisted, by result.",
		},
		[]string{"result"},
	)
)

func IncAuditDropped() { auditDroppedTotal.Inc() }

func IncAuditWritten(ok bool) {
	result := "error"
	if ok {
		result = "ok"
	}
	auditWrittenTotal.WithLabelValues(result).Inc()
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheRefreshTotal, cacheLookupsTotal) }

var (
	// result: success|failure|initial_failure
	cacheRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_cache_refresh_total",
			Help: "Snapshot refresh outcomes per configuration kind.",
		},
		[]string{"cache", "result"},
	)

	cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_cache_lookups_total",
			Help: "Snapshot lookups per configuration kind and result (hit/miss).",
		},
		[]string{"cache", "result"},
	)
)

func IncCacheRefresh(cacheName, result string) {
	cacheRefreshTotal.WithLabelValues(norm(cacheName), norm(result)).Inc()
}

func IncCacheLookup(cacheName string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(norm(cacheName), result).Inc()
}

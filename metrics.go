package jsonsize

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "jsonsize"

type cacheMetrics struct {
	bytes     prometheus.Gauge
	entries   prometheus.Gauge
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	rejected  prometheus.Counter
}

// newCacheMetrics registers the cache collectors with reg. A nil reg leaves
// them unregistered but still usable.
func newCacheMetrics(reg prometheus.Registerer) *cacheMetrics {
	return &cacheMetrics{
		bytes: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "cache_bytes",
			Help:      "Estimated in-memory size of the values held by the cache.",
		}),
		entries: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "cache_entries",
			Help:      "Number of values held by the cache.",
		}),
		hits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "Total number of lookups that found a value.",
		}),
		misses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_misses_total",
			Help:      "Total number of lookups that found nothing.",
		}),
		evictions: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_evictions_total",
			Help:      "Total number of values evicted to stay within the entry or byte budget.",
		}),
		rejected: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_rejected_total",
			Help:      "Total number of values refused because they alone exceed the byte budget.",
		}),
	}
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "finadvisor",
			Subsystem: "provider",
			Name:      "latency_seconds",
			Help:      "Latency of provider requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider", "endpoint"},
	)

	ProviderErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finadvisor",
			Subsystem: "provider",
			Name:      "errors_total",
			Help:      "Errors by provider and endpoint",
		},
		[]string{"provider", "endpoint"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finadvisor",
			Subsystem: "provider",
			Name:      "cache_hits_total",
			Help:      "Provider cache hits by kind",
		},
		[]string{"kind"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(ProviderLatency, ProviderErrors, CacheHits)
	})
}

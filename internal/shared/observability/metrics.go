package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bem_resolutions_total",
		Help: "Total number of class-name resolutions, by operation.",
	}, []string{"operation"})

	ResolutionErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bem_resolution_errors_total",
		Help: "Total number of failed resolutions, by error code.",
	}, []string{"code"})

	ResolverCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bem_resolver_cache_hits_total",
		Help: "Total number of per-block resolver lookups served from the cache.",
	})

	ResolverCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bem_resolver_cache_misses_total",
		Help: "Total number of per-block resolvers built on demand.",
	})

	ManifestKeys = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bem_manifest_keys",
		Help: "Number of keys in the active class mapping.",
	})

	ManifestReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bem_manifest_reloads_total",
		Help: "Total number of class manifest reloads, by result.",
	}, []string{"result"})
)

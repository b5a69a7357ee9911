package metrics

import "github.com/prometheus/client_golang/prometheus"

// Namespace prefixes every metric exported by the service.
const Namespace = "crmsearch"

// Search and dashboard Prometheus metrics.
var (
	SearchAdapterRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_adapter_requests_total",
			Help:      "Total entity adapter queries by source and outcome",
		},
		[]string{"source", "status"},
	)

	SearchAdapterDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_adapter_duration_seconds",
			Help:      "Entity adapter query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"source"},
	)

	SearchAdapterFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_adapter_failures_total",
			Help:      "Adapter failures recovered as empty results",
		},
		[]string{"source"},
	)

	DashboardCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "dashboard_cache_total",
			Help:      "Dashboard tier cache hits, misses and errors",
		},
		[]string{"tier", "result"}, // "hit" / "miss" / "error"
	)

	DashboardTierFetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "dashboard_tier_fetch_errors_total",
			Help:      "Tier fetch failures replaced by the empty default",
		},
		[]string{"tier"},
	)

	BackgroundTaskErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "background_task_errors_total",
			Help:      "Fire-and-forget task failures and panics",
		},
		[]string{"task"},
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers search and dashboard metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchAdapterRequestsTotal)
	prometheus.MustRegister(SearchAdapterDuration)
	prometheus.MustRegister(SearchAdapterFailuresTotal)
	prometheus.MustRegister(DashboardCacheTotal)
	prometheus.MustRegister(DashboardTierFetchErrorsTotal)
	prometheus.MustRegister(BackgroundTaskErrorsTotal)
	domainMetricsRegistered = true
}

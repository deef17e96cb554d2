package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// OracleRequestsTotal counts outbound price feed requests by outcome.
	OracleRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_quoter_oracle_requests_total",
			Help: "Number of price feed requests by outcome.",
		},
		[]string{"outcome"},
	)

	// FeeQuoteRequestsTotal counts outbound relayer fee-quote requests by outcome.
	FeeQuoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_quoter_fee_quote_requests_total",
			Help: "Number of relayer fee quote requests by outcome.",
		},
		[]string{"outcome"},
	)

	// FeeQuoteDuration observes relayer fee-quote latency in seconds.
	FeeQuoteDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bridge_quoter_fee_quote_duration_seconds",
			Help:    "Latency of relayer fee quote requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Outcome label values.
const (
	OutcomeSuccess     = "success"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
	OutcomeCacheHit    = "cache_hit"
)

// MustRegisterMetrics registers all collectors with the default registry.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		OracleRequestsTotal,
		FeeQuoteRequestsTotal,
		FeeQuoteDuration,
	)
}

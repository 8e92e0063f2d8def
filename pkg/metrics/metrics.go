package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docstore", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docstore", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	// Operations counts store operations by name (insert, load, find) and outcome.
	Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docstore", Name: "operations_total", Help: "Store operations by operation and outcome."},
		[]string{"op", "outcome"},
	)
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "docstore", Name: "operation_duration_seconds", Help: "Store operation latency.", Buckets: prometheus.DefBuckets},
		[]string{"op"},
	)
	ScanSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docstore", Name: "scan_skipped_total", Help: "Records skipped during a search because their metadata could not be read."},
	)
	DecodeWarnings = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docstore", Name: "decode_warnings_total", Help: "Metadata records decoded with an unparseable date."},
	)
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(Operations)
	reg.MustRegister(OperationDuration)
	reg.MustRegister(ScanSkipped)
	reg.MustRegister(DecodeWarnings)
}

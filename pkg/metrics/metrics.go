package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitecms_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// CacheRequests counts cache lookups by cache name and result (hit|miss).
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitecms_cache_requests_total",
			Help: "Total number of cache lookups",
		},
		[]string{"cache", "result"},
	)

	// RateLimitDecisions counts limiter outcomes per policy (allowed|rejected|error).
	RateLimitDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitecms_rate_limit_decisions_total",
			Help: "Rate limiter decisions by policy",
		},
		[]string{"policy", "result"},
	)

	// BlobBytes tracks bytes moved through the blob store by operation (put|get).
	BlobBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitecms_blob_bytes_total",
			Help: "Bytes written to or read from blob storage",
		},
		[]string{"operation"},
	)

	// MaintenanceRuns counts scheduled maintenance job executions by job and result.
	MaintenanceRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitecms_maintenance_runs_total",
			Help: "Maintenance job executions",
		},
		[]string{"job", "result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitecms_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

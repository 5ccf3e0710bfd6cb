package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database/Repository Metrics
var (
	// DBOperations tracks total database operations
	DBOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenhouse_db_operations_total",
			Help: "Total database operations by repository, operation, and status",
		},
		[]string{"repo", "operation", "status"},
	)

	// DBDuration tracks database operation latency
	DBDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "greenhouse_db_operation_duration_ms",
			Help:                            "Database operation duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"repo", "operation"},
	)

	// DBRowsAffected tracks rows affected by write operations
	DBRowsAffected = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "greenhouse_db_rows_affected",
			Help:                            "Number of rows affected by database write operations",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"repo", "operation"},
	)

	// DBErrors tracks database errors by type
	DBErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenhouse_db_errors_total",
			Help: "Total database errors by repository, operation, and error type",
		},
		[]string{"repo", "operation", "error_type"},
	)
)

// Service Layer Metrics
var (
	// ServiceOperations tracks service-level operations
	ServiceOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenhouse_service_operations_total",
			Help: "Total service operations by service, method, and status",
		},
		[]string{"service", "method", "status"},
	)

	// ServiceDuration tracks service operation latency
	ServiceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "greenhouse_service_operation_duration_ms",
			Help:                            "Service operation duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"service", "method"},
	)

	// CredentialsIssued tracks API credentials issued to connected apps
	CredentialsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenhouse_credentials_issued_total",
			Help: "Total API credentials issued, by API key",
		},
		[]string{"api_key"},
	)
)

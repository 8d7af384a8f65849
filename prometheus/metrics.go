package prometheus

import (
	"time"

	"shopapi/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Authentication metrics
	AuthOperationsCounter prometheus.CounterVec
	AuthErrorsCounter     prometheus.CounterVec
	ActiveTokensGauge     prometheus.Gauge

	// Order metrics
	OrderOperationsCounter prometheus.CounterVec
	OrderTotalAmount       prometheus.Histogram

	// Product and review metrics
	ProductOperationsCounter prometheus.CounterVec
	ReviewOperationsCounter  prometheus.CounterVec
	ProductInventoryGauge    prometheus.GaugeVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	// Use metric prefix from configuration
	prefix := cfg.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	AuthOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_operations_total",
			Help: "Total number of authentication operations",
		},
		[]string{"operation"},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"},
	)

	ActiveTokensGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_active_refresh_tokens",
			Help: "Number of currently active refresh tokens",
		},
	)

	OrderOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation"},
	)

	OrderTotalAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    prefix + "_order_total_amount",
			Help:    "Distribution of created order totals",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	ProductOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	ReviewOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_review_operations_total",
			Help: "Total number of review operations",
		},
		[]string{"operation"},
	)

	ProductInventoryGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_inventory",
			Help: "Current inventory level for products",
		},
		[]string{"product_id", "product_name"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordAuthOperation increments the counter for auth operations
func RecordAuthOperation(operation string) {
	AuthOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordAuthError increments the counter for auth errors
func RecordAuthError(errType string) {
	AuthErrorsCounter.WithLabelValues(errType).Inc()
}

// RecordOrderOperation increments the counter for order operations
func RecordOrderOperation(operation string) {
	OrderOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordReviewOperation increments the counter for review operations
func RecordReviewOperation(operation string) {
	ReviewOperationsCounter.WithLabelValues(operation).Inc()
}

// UpdateProductInventory updates the gauge for product inventory
func UpdateProductInventory(productID string, productName string, count float64) {
	ProductInventoryGauge.WithLabelValues(productID, productName).Set(count)
}

package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector exported by the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	StatusCategoryTotal *prometheus.CounterVec

	// Database operation metrics
	DBOperationDuration *prometheus.HistogramVec

	// Domain operation metrics
	OperationsCounter *prometheus.CounterVec

	// Inventory metrics
	ProductInventoryGauge *prometheus.GaugeVec
	ReportRowsHistogram   prometheus.Histogram
}

// NewMetrics creates the collectors under prefix and registers them with reg
func NewMetrics(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		StatusCategoryTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"category"},
		),
		DBOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		),
		OperationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_operations_total",
				Help: "Total number of inventory operations",
			},
			[]string{"entity", "operation"},
		),
		ProductInventoryGauge: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_product_inventory",
				Help: "Current inventory level for products",
			},
			[]string{"product_id", "product_name"},
		),
		ReportRowsHistogram: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + "_report_rows",
				Help:    "Number of products returned by report queries",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}
}

// TrackDBOperation returns a function that records the duration of a database operation
func (m *Metrics) TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if m == nil {
			return
		}
		m.DBOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordOperation increments the counter for an entity operation
func (m *Metrics) RecordOperation(entity, operation string) {
	if m == nil {
		return
	}
	m.OperationsCounter.WithLabelValues(entity, operation).Inc()
}

// UpdateProductInventory sets the stock gauge of a product
func (m *Metrics) UpdateProductInventory(productID uint, productName string, quantity int) {
	if m == nil {
		return
	}
	m.ProductInventoryGauge.WithLabelValues(strconv.FormatUint(uint64(productID), 10), productName).Set(float64(quantity))
}

// ForgetProduct drops every stock gauge series of a deleted product
func (m *Metrics) ForgetProduct(productID uint) {
	if m == nil {
		return
	}
	m.ProductInventoryGauge.DeletePartialMatch(prometheus.Labels{"product_id": strconv.FormatUint(uint64(productID), 10)})
}

// ObserveReport records the size of a report listing
func (m *Metrics) ObserveReport(rows int) {
	if m == nil {
		return
	}
	m.ReportRowsHistogram.Observe(float64(rows))
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())

	switch {
	case status >= 200 && status < 300:
		m.StatusCategoryTotal.WithLabelValues("2xx").Inc()
	case status >= 300 && status < 400:
		m.StatusCategoryTotal.WithLabelValues("3xx").Inc()
	case status >= 400 && status < 500:
		m.StatusCategoryTotal.WithLabelValues("4xx").Inc()
	case status >= 500:
		m.StatusCategoryTotal.WithLabelValues("5xx").Inc()
	}
}

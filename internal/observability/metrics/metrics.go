package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Config configures the metrics registry.
type Config struct {
	Namespace string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	transactions        *prometheus.CounterVec
	droppedItems        *prometheus.CounterVec
	grossAmount         *prometheus.HistogramVec
	receiptAllocations  *prometheus.CounterVec
	receiptAllocateTime prometheus.Histogram
	rateLimitDecisions  *prometheus.CounterVec
}

// New registers the application instruments on reg.
func New(cfg Config, reg prometheus.Registerer) (*Metrics, error) {
	ns := sanitizeNamespace(cfg.Namespace)

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Counts HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency per method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "transactions_total",
			Help:      "Transactions calculated by type and operation.",
		}, []string{"type", "operation"}),
		droppedItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "transaction_items_dropped_total",
			Help:      "Line items left out of a calculation because they could not be priced.",
		}, []string{"type"}),
		grossAmount: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "transaction_gross_amount",
			Help:      "Gross amount distribution of stored transactions.",
			Buckets:   []float64{1000, 5000, 10000, 50000, 100000, 500000, 1000000},
		}, []string{"type"}),
		receiptAllocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "receipt_allocations_total",
			Help:      "Receipt number allocations by outcome.",
		}, []string{"status"}),
		receiptAllocateTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "receipt_allocation_duration_seconds",
			Help:      "Time spent allocating a receipt number, lock included.",
			Buckets:   prometheus.DefBuckets,
		}),
		rateLimitDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "write_rate_limit_decisions_total",
			Help:      "Write rate limit checks by decision.",
		}, []string{"decision"}),
	}

	collectors := []prometheus.Collector{
		m.httpRequests,
		m.httpDuration,
		m.transactions,
		m.droppedItems,
		m.grossAmount,
		m.receiptAllocations,
		m.receiptAllocateTime,
		m.rateLimitDecisions,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// GinMiddleware records request counts and latency per matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := sanitizeLabel(c.Request.Method)
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordTransaction counts a calculation and the items it dropped.
func (m *Metrics) RecordTransaction(txType, operation string, inputItems, pricedItems int, gross int64) {
	if m == nil {
		return
	}
	typeLabel := sanitizeLabel(txType)
	m.transactions.WithLabelValues(typeLabel, sanitizeLabel(operation)).Inc()
	if dropped := inputItems - pricedItems; dropped > 0 {
		m.droppedItems.WithLabelValues(typeLabel).Add(float64(dropped))
	}
	if operation != "preview" {
		m.grossAmount.WithLabelValues(typeLabel).Observe(float64(gross))
	}
}

// RecordReceiptAllocation records one allocation attempt.
func (m *Metrics) RecordReceiptAllocation(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.receiptAllocations.WithLabelValues(sanitizeLabel(status)).Inc()
	m.receiptAllocateTime.Observe(duration.Seconds())
}

func (m *Metrics) RecordRateLimit(decision string) {
	if m == nil {
		return
	}
	m.rateLimitDecisions.WithLabelValues(sanitizeLabel(decision)).Inc()
}

func sanitizeNamespace(ns string) string {
	ns = strings.ToLower(strings.TrimSpace(ns))
	ns = strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(ns)
	if ns == "" {
		return "arot"
	}
	return ns
}

func sanitizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}

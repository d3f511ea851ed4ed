package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 持有 HTTP 层的 Prometheus 指标。
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	quotaDenials    *prometheus.CounterVec
	bookingsTotal   prometheus.Counter
}

// New 注册指标并返回收集器。
func New(prefix string) *Metrics {
	if prefix == "" {
		prefix = "tourbase"
	}
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		quotaDenials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_quota_denials_total",
				Help: "Total number of publish attempts rejected by plan quota",
			},
			[]string{"content_type"},
		),
		bookingsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_public_bookings_total",
				Help: "Total number of bookings submitted through the public site",
			},
		),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration, m.quotaDenials, m.bookingsTotal)
	return m
}

// Middleware 记录每个请求的计数与耗时，按路由模板聚合避免高基数标签。
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.requestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露 /metrics 抓取端点。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordQuotaDenial 记录一次配额拒绝。
func (m *Metrics) RecordQuotaDenial(contentType string) {
	if m == nil {
		return
	}
	m.quotaDenials.WithLabelValues(contentType).Inc()
}

// RecordPublicBooking 记录一次公共端预订提交。
func (m *Metrics) RecordPublicBooking() {
	if m == nil {
		return
	}
	m.bookingsTotal.Inc()
}

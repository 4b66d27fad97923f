package telemetry

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus holds the registry scraped at /metrics and the collectors the
// HTTP layer and services update.
type Prometheus struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	sales        *prometheus.CounterVec
	messages     *prometheus.CounterVec
	backups      *prometheus.CounterVec
	queueDepth   prometheus.Gauge
}

// NewPrometheus creates a registry with Go runtime and process collectors
func NewPrometheus(namespace string) *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sales: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_completed_total",
			Help:      "Completed sales by payment method label.",
		}, []string{"payment_method"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "whatsapp_messages_total",
			Help:      "Outbound WhatsApp messages by final queue status.",
		}, []string{"status"}),
		backups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backups_total",
			Help:      "Backup runs by type and outcome.",
		}, []string{"type", "outcome"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "whatsapp_queue_due",
			Help:      "Queue rows picked up by the last processing run.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.httpRequests, p.httpDuration, p.sales, p.messages, p.backups, p.queueDepth,
	)
	return p
}

// RegisterDB exports connection pool statistics
func (p *Prometheus) RegisterDB(db *sql.DB, name string) error {
	return p.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Registry returns the underlying registry
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// ObserveHTTP records one served request. route is the matched pattern,
// never the raw path, to bound label cardinality.
func (p *Prometheus) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SaleCompleted counts a completed sale
func (p *Prometheus) SaleCompleted(paymentMethod string) {
	p.sales.WithLabelValues(paymentMethod).Inc()
}

// MessageResolved counts a queue row reaching a terminal status
func (p *Prometheus) MessageResolved(status string) {
	p.messages.WithLabelValues(status).Inc()
}

// BackupFinished counts a backup run
func (p *Prometheus) BackupFinished(backupType, outcome string) {
	p.backups.WithLabelValues(backupType, outcome).Inc()
}

// QueueDue records how many queue rows the last run picked up
func (p *Prometheus) QueueDue(n int) {
	p.queueDepth.Set(float64(n))
}

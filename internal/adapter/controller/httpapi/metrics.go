package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one service.
// Each service owns its registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	notesCreated prometheus.Counter
	notesDeleted prometheus.Counter
	chatFailures *prometheus.CounterVec
}

// NewMetrics creates the collectors for the named service ("notes" or "chat")
func NewMetrics(service string) *Metrics {
	constLabels := prometheus.Labels{"service": service}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "notesvc",
			Name:        "http_requests_total",
			Help:        "HTTP requests handled, by route, method and status code.",
			ConstLabels: constLabels,
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "notesvc",
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency, by route and method.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"route", "method"}),
		notesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "notesvc",
			Name:        "notes_created_total",
			Help:        "Notes created.",
			ConstLabels: constLabels,
		}),
		notesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "notesvc",
			Name:        "notes_deleted_total",
			Help:        "Notes deleted.",
			ConstLabels: constLabels,
		}),
		chatFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "notesvc",
			Name:        "chat_failures_total",
			Help:        "Chat requests that did not produce a reply, by reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.notesCreated,
		m.notesDeleted,
		m.chatFailures,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observe(route, method string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) noteCreated() { m.notesCreated.Inc() }
func (m *Metrics) noteDeleted() { m.notesDeleted.Inc() }

func (m *Metrics) chatFailed(reason string) {
	m.chatFailures.WithLabelValues(reason).Inc()
}

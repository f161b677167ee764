// Package metrics provides the Prometheus collectors of the ticket registration service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "ticket_registration"

// Metrics owns a private registry so tests and multiple instances never collide
// on the global default registerer.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	ticketsCreated      *prometheus.CounterVec
	seatsReserved       *prometheus.CounterVec
	ticketsDeleted      *prometheus.CounterVec
}

// Option customizes New.
type Option func(*options)

type options struct {
	namespace       string
	buckets         []float64
	runtimeCollects bool
}

// WithNamespace overrides the metric name prefix.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithBuckets overrides the HTTP latency histogram buckets (seconds).
func WithBuckets(b []float64) Option {
	return func(o *options) { o.buckets = b }
}

// WithoutRuntimeCollectors skips the Go and process collectors.
func WithoutRuntimeCollectors() Option {
	return func(o *options) { o.runtimeCollects = false }
}

func New(opts ...Option) *Metrics {
	o := options{namespace: defaultNamespace, buckets: prometheus.DefBuckets, runtimeCollects: true}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route binding, method and status.",
		}, []string{"route", "method", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route binding and method.",
			Buckets:   o.buckets,
		}, []string{"route", "method"}),
		ticketsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "tickets",
			Name:      "created_total",
			Help:      "Ticket registrations created by ticket type.",
		}, []string{"ticket_type"}),
		seatsReserved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "tickets",
			Name:      "seats_reserved_total",
			Help:      "Seats reserved by ticket type.",
		}, []string{"ticket_type"}),
		ticketsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "tickets",
			Name:      "deleted_total",
			Help:      "Ticket registrations deleted by ticket type.",
		}, []string{"ticket_type"}),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpRequestDuration,
		m.ticketsCreated,
		m.seatsReserved,
		m.ticketsDeleted,
	)
	if o.runtimeCollects {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// TicketCreated implements service.Recorder.
func (m *Metrics) TicketCreated(ticketType string, seats int) {
	m.ticketsCreated.WithLabelValues(ticketType).Inc()
	m.seatsReserved.WithLabelValues(ticketType).Add(float64(seats))
}

// TicketDeleted implements service.Recorder. Seats stay counted as reserved;
// the counter tracks reservations made, not seats currently held.
func (m *Metrics) TicketDeleted(ticketType string, _ int) {
	m.ticketsDeleted.WithLabelValues(ticketType).Inc()
}

// Package metrics owns the Prometheus registry of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mocha"

// Metrics groups the collectors the service reports.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SessionsCreated   prometheus.Counter
	FormSubmits       *prometheus.CounterVec
	Payments          *prometheus.CounterVec
	WizardTransitions *prometheus.CounterVec
	Transfers         *prometheus.CounterVec
	Receipts          *prometheus.CounterVec
	EventSubscribers  prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distributions.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.3, 0.5, 1.0},
		}, []string{"method", "path"}),
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Transfer sessions opened.",
		}),
		FormSubmits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_submits_total",
			Help:      "Transfer form submissions by result.",
		}, []string{"result"}),
		Payments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Payment attempts by outcome.",
		}, []string{"outcome"}),
		WizardTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_transitions_total",
			Help:      "Conversation step changes.",
		}, []string{"from", "to"}),
		Transfers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Transfers confirmed or cancelled in the chat.",
		}, []string{"outcome"}),
		Receipts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_total",
			Help:      "WhatsApp receipt sends by outcome.",
		}, []string{"outcome"}),
		EventSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_subscribers",
			Help:      "Open session event streams.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		if path == "" || path == "/" && c.Path() != "/" {
			// unmatched routes
			return err
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

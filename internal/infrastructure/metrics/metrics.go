// Package metrics contadores Prometheus del motor de lotes y de la API HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

var _ lotes.Recorder = (*Metrics)(nil)

// Metrics registro propio (no el global) para que cada proceso o test tenga el suyo.
type Metrics struct {
	registry            *prometheus.Registry
	transitions         *prometheus.CounterVec
	rejections          *prometheus.CounterVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New registra los colectores de la aplicación y los de runtime de Go.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lotes_transitions_total",
				Help: "Transiciones de estado aplicadas, por estado origen y destino",
			},
			[]string{"from", "to"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lotes_transition_rejections_total",
				Help: "Operaciones del motor rechazadas, por regla",
			},
			[]string{"rule"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
	m.registry.MustRegister(
		m.transitions,
		m.rejections,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry expone el registro (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecordTransition implementa lotes.Recorder.
func (m *Metrics) RecordTransition(from, to entity.LotStatus) {
	m.transitions.WithLabelValues(from.String(), to.String()).Inc()
}

// RecordRejection implementa lotes.Recorder; code es el código estable del error.
func (m *Metrics) RecordRejection(code string) {
	m.rejections.WithLabelValues(code).Inc()
}

// Middleware mide cada request. El path es el de la ruta (/api/lotes/:id), no el concreto.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < fiber.StatusBadRequest {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler /metrics en formato de exposición de Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

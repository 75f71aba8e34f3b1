package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics of the docs server. Each server
// carries its own registry so multiple instances never fight over metric
// registration.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the server metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "elixir_sense_http_requests_total",
				Help: "Total number of documentation requests",
			},
			[]string{"category", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "elixir_sense_http_request_duration_seconds",
				Help:    "Duration of documentation requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"category"},
		),
	}
}

// RecordRequest records one documentation request.
func (m *Metrics) RecordRequest(category string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(category, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(category).Observe(duration.Seconds())
}

// Handler serves this server's registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

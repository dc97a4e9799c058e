package utils

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the Prometheus collectors the API records.
type Metrics struct {
	// ReqCount counts HTTP requests by method, route and status.
	ReqCount *prometheus.CounterVec
	// ReqDuration observes request latency by method and route.
	ReqDuration *prometheus.HistogramVec
	// ErrorCount counts failed requests by handler and error kind.
	ErrorCount *prometheus.CounterVec
	// EventCount counts incident events by type and publish result.
	EventCount *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReqCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ciclored_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		ReqDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ciclored_http_request_duration_seconds",
				Help:    "Request duration seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ErrorCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ciclored_errors_total",
				Help: "Total failed requests",
			},
			[]string{"handler", "kind"},
		),
		EventCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ciclored_incident_events_total",
				Help: "Incident events published to the broker",
			},
			[]string{"type", "result"},
		),
	}
	reg.MustRegister(m.ReqCount, m.ReqDuration, m.ErrorCount, m.EventCount)
	return m
}

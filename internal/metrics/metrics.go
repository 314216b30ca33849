// Package metrics exposes Prometheus counters for the calendar services and
// the HTTP surface.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/smart-calendar/internal/application"
)

const namespace = "smart_calendar"

var _ application.Recorder = (*Metrics)(nil)

// Metrics holds every collector on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	EventsCreated             *prometheus.CounterVec
	EventsCompleted           *prometheus.CounterVec
	SuggestionsGeneratedTotal prometheus.Counter
	SuggestionsSkippedTotal   prometheus.Counter
	SuggestionsAccepted       *prometheus.CounterVec
	SuggestionsDismissed      *prometheus.CounterVec
	ServiceErrors             *prometheus.CounterVec

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// New registers the collectors plus the Go runtime and process collectors
// on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		EventsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_created_total",
			Help:      "Events created, by source.",
		}, []string{"source"}),
		EventsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_completed_total",
			Help:      "Events marked complete, by completion policy.",
		}, []string{"policy"}),
		SuggestionsGeneratedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_generated_total",
			Help:      "Suggestions returned by suggestion passes.",
		}),
		SuggestionsSkippedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_skipped_total",
			Help:      "Source records skipped because they were malformed.",
		}),
		SuggestionsAccepted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_accepted_total",
			Help:      "Suggestions accepted, by whether the user edited them.",
		}, []string{"edited"}),
		SuggestionsDismissed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_dismissed_total",
			Help:      "Suggestions dismissed, by dismissal scope.",
		}, []string{"scope"}),
		ServiceErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_errors_total",
			Help:      "Failed service operations, by error kind.",
		}, []string{"service", "operation", "kind"}),
		RequestCounter: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		RequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// WatchDB exports connection pool statistics read from stats on every scrape.
func (m *Metrics) WatchDB(stats func() sql.DBStats) {
	gauge := func(name, help string, read func(sql.DBStats) float64) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      name,
			Help:      help,
		}, func() float64 { return read(stats()) })
	}
	m.registry.MustRegister(
		gauge("open_connections", "Open database connections.", func(s sql.DBStats) float64 { return float64(s.OpenConnections) }),
		gauge("in_use_connections", "Connections currently in use.", func(s sql.DBStats) float64 { return float64(s.InUse) }),
		gauge("idle_connections", "Idle connections.", func(s sql.DBStats) float64 { return float64(s.Idle) }),
		gauge("wait_count", "Connections waited for.", func(s sql.DBStats) float64 { return float64(s.WaitCount) }),
		gauge("wait_duration_seconds", "Time spent waiting for connections.", func(s sql.DBStats) float64 { return s.WaitDuration.Seconds() }),
	)
}

// TrackInFlight adjusts the in-flight request gauge by delta.
func (m *Metrics) TrackInFlight(delta int) {
	m.RequestsInFlight.Add(float64(delta))
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.RequestCounter.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) EventCreated(source string) {
	m.EventsCreated.WithLabelValues(source).Inc()
}

func (m *Metrics) EventCompleted(policy application.CompletionPolicy) {
	m.EventsCompleted.WithLabelValues(string(policy)).Inc()
}

func (m *Metrics) SuggestionsGenerated(n int) {
	m.SuggestionsGeneratedTotal.Add(float64(n))
}

func (m *Metrics) SuggestionsSkipped(n int) {
	m.SuggestionsSkippedTotal.Add(float64(n))
}

func (m *Metrics) SuggestionAccepted(edited bool) {
	m.SuggestionsAccepted.WithLabelValues(strconv.FormatBool(edited)).Inc()
}

func (m *Metrics) SuggestionDismissed(scope application.DismissalScope) {
	m.SuggestionsDismissed.WithLabelValues(string(scope)).Inc()
}

func (m *Metrics) ServiceError(service, operation, kind string) {
	m.ServiceErrors.WithLabelValues(service, operation, kind).Inc()
}

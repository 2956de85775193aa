package metrics

import (
	"net/http"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresh results.
const (
	RefreshOK      = "ok"
	RefreshError   = "error"
	RefreshSkipped = "circuit_open"
	RefreshCached  = "cache_fallback"
)

// Metrics holds the collectors of one process. All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	answers         *prometheus.CounterVec
	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	sessionsActive  prometheus.Gauge
	httpRequests    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		answers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_bot_answers_total",
				Help: "Total number of answered queries by resolved intent",
			},
			[]string{"intent"},
		),
		refreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_bot_profile_refresh_total",
				Help: "Total number of profile refresh attempts by result",
			},
			[]string{"result"},
		),
		refreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "portfolio_bot_profile_refresh_duration_seconds",
				Help:    "Duration of profile refreshes in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		sessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "portfolio_bot_chat_sessions_active",
				Help: "Number of open websocket chat sessions",
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_bot_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
	}
}

func (m *Metrics) ObserveAnswer(intent domain.IntentKey) {
	if m == nil {
		return
	}
	m.answers.WithLabelValues(intent.String()).Inc()
}

func (m *Metrics) ObserveRefresh(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
	m.refreshDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

func (m *Metrics) ObserveHTTP(route, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, status).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RefreshCounter returns the refresh counter for result.
func (m *Metrics) RefreshCounter(result string) prometheus.Counter {
	return m.refreshes.WithLabelValues(result)
}

func (m *Metrics) AnswerCounter(intent domain.IntentKey) prometheus.Counter {
	return m.answers.WithLabelValues(intent.String())
}

func (m *Metrics) ActiveSessions() prometheus.Gauge {
	return m.sessionsActive
}

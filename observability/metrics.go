package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	sessionsActive    prometheus.Gauge
	sessionsExpired   prometheus.Counter
	actionsTotal      *prometheus.CounterVec
	dispatchDuration  *prometheus.HistogramVec
	liveUpdatesTotal  *prometheus.CounterVec
	badgeDriftTotal   *prometheus.CounterVec
	gateReadyTotal    *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers the dashboard collectors on reg. A nil reg uses the
// default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_sessions_active",
			Help: "Screen sessions currently open.",
		}),
		sessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_sessions_expired_total",
			Help: "Screen sessions closed by the idle sweep.",
		}),
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_actions_total",
			Help: "Screen actions dispatched by screen and action.",
		}, []string{"screen", "action"}),
		dispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_dispatch_duration_seconds",
			Help:    "Time to reduce an action and render the resulting view.",
			Buckets: prometheus.DefBuckets,
		}, []string{"screen"}),
		liveUpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_live_updates_total",
			Help: "Live updates applied by screen and op.",
		}, []string{"screen", "op"}),
		badgeDriftTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_badge_drift_total",
			Help: "Refreshes where baseline-only badges differed from merged badges.",
		}, []string{"screen"}),
		gateReadyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_gate_ready_total",
			Help: "Loading gates that reached ready, by screen.",
		}, []string{"screen"}),
		gatherer: gatherer,
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.sessionsActive,
		m.sessionsExpired,
		m.actionsTotal,
		m.dispatchDuration,
		m.liveUpdatesTotal,
		m.badgeDriftTotal,
		m.gateReadyTotal,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPRequest(route string, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, status).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
}

func (m *Metrics) SessionClosed(expired bool) {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
	if expired {
		m.sessionsExpired.Inc()
	}
}

func (m *Metrics) ActionDispatched(screen, action string, duration time.Duration) {
	if m == nil {
		return
	}
	m.actionsTotal.WithLabelValues(screen, action).Inc()
	m.dispatchDuration.WithLabelValues(screen).Observe(duration.Seconds())
}

func (m *Metrics) LiveUpdateApplied(screen, op string) {
	if m == nil {
		return
	}
	m.liveUpdatesTotal.WithLabelValues(screen, op).Inc()
}

func (m *Metrics) BadgeDrift(screen string) {
	if m == nil {
		return
	}
	m.badgeDriftTotal.WithLabelValues(screen).Inc()
}

func (m *Metrics) GateReady(screen string) {
	if m == nil {
		return
	}
	m.gateReadyTotal.WithLabelValues(screen).Inc()
}

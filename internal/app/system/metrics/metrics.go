// Package metrics defines the Prometheus collectors for the dashboard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "studentdash"

// Fetch results.
const (
	ResultOK        = "ok"
	ResultError     = "error"
	ResultCancelled = "cancelled"
)

var (
	// DashboardFetches counts backend fetches by result.
	DashboardFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_fetches_total",
		Help:      "Dashboard backend fetches by result.",
	}, []string{"result"})

	// DashboardFetchSeconds observes backend fetch latency.
	DashboardFetchSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dashboard_fetch_seconds",
		Help:      "Dashboard backend fetch latency.",
		Buckets:   prometheus.DefBuckets,
	})

	// GateDecisions counts access gate outcomes (pending, login, redirect, allow).
	GateDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Student dashboard access gate outcomes.",
	}, []string{"outcome"})

	// NotificationDismissals counts dismissed notifications.
	NotificationDismissals = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_dismissals_total",
		Help:      "Notifications dismissed on the student dashboard.",
	})

	// OpenPageViews tracks page views held in memory.
	OpenPageViews = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "page_views_open",
		Help:      "Student dashboard page views currently held.",
	})
)

// NewRegistry returns a registry holding the app collectors plus the Go
// runtime and process collectors.
func NewRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	cs := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		DashboardFetches,
		DashboardFetchSeconds,
		GateDecisions,
		NotificationDismissals,
		OpenPageViews,
	}
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

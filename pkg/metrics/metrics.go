package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Record store metrics
	Mutations          *prometheus.CounterVec
	AuditEntries       *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec

	// Navigation and access metrics
	Navigations  *prometheus.CounterVec
	AccessDenied *prometheus.CounterVec

	// Session metrics
	ActiveSessions prometheus.Gauge
}

// NewMetrics creates all application metrics and registers them on reg.
// A nil reg uses a fresh private registry so tests never collide.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Total number of committed record mutations",
		}, []string{"kind", "action"}),
		AuditEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_entries_total",
			Help:      "Total number of audit entries appended",
		}, []string{"action"}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Total number of rejected create or update requests",
		}, []string{"kind"}),

		Navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Total number of navigation requests",
		}, []string{"screen"}),
		AccessDenied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_denied_total",
			Help:      "Total number of actions refused by the permission matrix",
		}, []string{"capability"}),

		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of signed-in sessions",
		}),
	}
}

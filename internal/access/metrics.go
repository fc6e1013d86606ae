package access

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts workflow outcomes.
type Metrics struct {
	submissions *prometheus.CounterVec
	decisions   *prometheus.CounterVec
	lookups     *prometheus.CounterVec
}

// NewMetrics registers the workflow counters on reg. A nil reg keeps them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_access_requests_total",
			Help: "Access request submissions by application and outcome.",
		}, []string{"app", "outcome"}),
		decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_access_decisions_total",
			Help: "Approval workflow decisions by application and action.",
		}, []string{"app", "action"}),
		lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_role_lookups_total",
			Help: "Dashboard role lookups by application and result.",
		}, []string{"app", "result"}),
	}
}

func (m *Metrics) submitted(app, outcome string) {
	if m != nil {
		m.submissions.WithLabelValues(app, outcome).Inc()
	}
}

func (m *Metrics) decided(app, action string) {
	if m != nil {
		m.decisions.WithLabelValues(app, action).Inc()
	}
}

func (m *Metrics) looked(app, result string) {
	if m != nil {
		m.lookups.WithLabelValues(app, result).Inc()
	}
}

// Submissions exposes the submission counter.
func (m *Metrics) Submissions() *prometheus.CounterVec {
	return m.submissions
}

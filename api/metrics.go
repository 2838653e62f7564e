/*
metrics.go - Prometheus instrumentation

PURPOSE:
  Counts checks and the violations they surface, by rule. Exposed at
  /metrics via promhttp; see server.go.
*/
package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/shiftguard/compliance-engine/compliance"
	"github.com/shiftguard/compliance-engine/engine"
)

// Metrics holds the API's Prometheus collectors.
type Metrics struct {
	ChecksTotal     *prometheus.CounterVec
	ViolationsTotal *prometheus.CounterVec
}

// NewMetrics registers collectors on the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers collectors on a specific registerer, so
// parallel test suites can each use a fresh registry.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ChecksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "compliance_checks_total",
			Help: "Compliance checks run, by path and verdict.",
		}, []string{"path", "passed"}),
		ViolationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "compliance_violations_total",
			Help: "Rule violations surfaced by checks, by rule id.",
		}, []string{"rule_id"}),
	}
}

// ObserveCheck records a full (persisting) check.
func (m *Metrics) ObserveCheck(result *engine.CheckResult) {
	if m == nil || result == nil {
		return
	}
	m.ChecksTotal.WithLabelValues("check", boolLabel(result.Passed)).Inc()
	for _, r := range result.Failed() {
		m.ViolationsTotal.WithLabelValues(r.RuleID).Inc()
	}
}

// ObserveValidation records a preview check.
func (m *Metrics) ObserveValidation(v *compliance.Validation) {
	if m == nil || v == nil {
		return
	}
	m.ChecksTotal.WithLabelValues("validate", boolLabel(v.Valid)).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

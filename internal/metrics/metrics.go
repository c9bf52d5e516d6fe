// Package metrics holds the Prometheus collectors of the form engine. They
// are registered with the default registry on import and served by the
// admin server's /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	formActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formgrid_form_actions_total",
			Help: "Total number of form actions handled, by action name.",
		},
		[]string{"action"},
	)

	validationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formgrid_validations_total",
			Help: "Total number of committed field validations, by outcome.",
		},
		[]string{"outcome"},
	)

	bizRuleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "formgrid_bizrule_duration_seconds",
			Help:    "Time from dispatching an asynchronous business rule to its settlement.",
			Buckets: prometheus.DefBuckets,
		},
	)

	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formgrid_submissions_total",
			Help: "Total number of submissions, by outcome.",
		},
		[]string{"outcome"},
	)

	activeForms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "formgrid_active_forms",
			Help: "Number of live form instances.",
		},
	)
)

func init() {
	prometheus.MustRegister(formActionsTotal)
	prometheus.MustRegister(validationsTotal)
	prometheus.MustRegister(bizRuleDuration)
	prometheus.MustRegister(submissionsTotal)
	prometheus.MustRegister(activeForms)
}

// Validation outcomes.
const (
	OutcomeValid    = "valid"
	OutcomeInvalid  = "invalid"
	OutcomeRestored = "restored"
)

// Submission outcomes.
const (
	SubmitStarted   = "started"
	SubmitSucceeded = "succeeded"
	SubmitRejected  = "rejected"
	SubmitCancelled = "cancelled"
	SubmitAborted   = "aborted"
)

// Action counts one handled form action.
func Action(name string) {
	formActionsTotal.WithLabelValues(name).Inc()
}

// Validation counts one committed validation.
func Validation(outcome string) {
	validationsTotal.WithLabelValues(outcome).Inc()
}

// BizRuleSettled observes how long an asynchronous business rule ran.
func BizRuleSettled(started time.Time) {
	bizRuleDuration.Observe(time.Since(started).Seconds())
}

// Submission counts one submission event.
func Submission(outcome string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
}

// FormCreated and FormDestroyed track live form instances.
func FormCreated()   { activeForms.Inc() }
func FormDestroyed() { activeForms.Dec() }

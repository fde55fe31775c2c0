// Package metrics defines the Prometheus collectors for lead intake and notification.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Intake outcomes.
const (
	OutcomeCreated     = "created"
	OutcomeRateLimited = "rate_limited"
	OutcomeInvalid     = "invalid"
	OutcomeStoreFailed = "store_failed"
)

// IntakeMetrics counts submissions by outcome and times successful ones.
type IntakeMetrics struct {
	submissions *prometheus.CounterVec
	latency     prometheus.Histogram
}

// NewIntakeMetrics registers the intake collectors on reg, or the default registerer when nil.
func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photo_portal",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Lead submissions by outcome",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "photo_portal",
			Subsystem: "leads",
			Name:      "persist_duration_seconds",
			Help:      "Time spent storing a lead",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissions, m.latency)
	return m
}

// ObserveSubmission records one submission outcome.
func (m *IntakeMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// ObservePersist records how long a store write took.
func (m *IntakeMetrics) ObservePersist(d time.Duration) {
	if m == nil {
		return
	}
	m.latency.Observe(d.Seconds())
}

// NotificationMetrics counts outbound emails by kind and status.
type NotificationMetrics struct {
	sends *prometheus.CounterVec
}

// NewNotificationMetrics registers the notification collectors on reg, or the default registerer when nil.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	m := &NotificationMetrics{
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photo_portal",
			Subsystem: "notifications",
			Name:      "sends_total",
			Help:      "Lead notification emails by kind and status",
		}, []string{"kind", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sends)
	return m
}

// ObserveSend records one send attempt.
func (m *NotificationMetrics) ObserveSend(kind string, err error) {
	if m == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.sends.WithLabelValues(kind, status).Inc()
}

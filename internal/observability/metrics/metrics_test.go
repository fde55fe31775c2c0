package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIntakeMetricsCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)

	m.ObserveSubmission(OutcomeCreated)
	m.ObserveSubmission(OutcomeCreated)
	m.ObserveSubmission(OutcomeRateLimited)

	if got := testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeCreated)); got != 2 {
		t.Fatalf("expected 2 created, got %v", got)
	}
	if got := testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeRateLimited)); got != 1 {
		t.Fatalf("expected 1 rate limited, got %v", got)
	}
}

func TestNotificationMetricsStatusLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewNotificationMetrics(reg)

	m.ObserveSend("operator_alert", nil)
	m.ObserveSend("visitor_confirmation", errors.New("smtp down"))

	if got := testutil.ToFloat64(m.sends.WithLabelValues("visitor_confirmation", "failed")); got != 1 {
		t.Fatalf("expected 1 failed confirmation, got %v", got)
	}
	if got := testutil.ToFloat64(m.sends.WithLabelValues("operator_alert", "sent")); got != 1 {
		t.Fatalf("expected 1 sent alert, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var intake *IntakeMetrics
	var notify *NotificationMetrics
	intake.ObserveSubmission(OutcomeInvalid)
	intake.ObservePersist(0)
	notify.ObserveSend("operator_alert", nil)
}

package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"photo_portal_backend/internal/events"
	"photo_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type testNotificationConfig struct {
	mode string
}

func (c testNotificationConfig) GetNotificationMode() string           { return c.mode }
func (c testNotificationConfig) GetNotificationTimeout() time.Duration { return time.Second }

type fakeEnqueuer struct {
	ids []uuid.UUID
	err error
}

func (f *fakeEnqueuer) EnqueueLeadNotification(_ context.Context, leadID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.ids = append(f.ids, leadID)
	return nil
}

func publishLeadCreated(t *testing.T, m *Module) {
	t.Helper()
	bus := events.NewInMemoryBus(logger.Discard())
	m.RegisterHandlers(bus)
	if err := bus.PublishSync(context.Background(), events.LeadCreated{BaseEvent: events.NewBaseEvent(), Lead: testLead()}); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
}

func TestInlineModeSendsOnLeadCreated(t *testing.T) {
	sender := &recordingSender{}
	m := New(sender, testBranding(), testNotificationConfig{mode: ModeInline}, nil, nil, nil)

	publishLeadCreated(t, m)

	if _, ok := sender.messageTo(testOperatorEmail); !ok {
		t.Fatal("expected operator alert")
	}
	if _, ok := sender.messageTo(testVisitorEmail); !ok {
		t.Fatal("expected visitor confirmation")
	}
}

func TestQueueModeEnqueuesInsteadOfSending(t *testing.T) {
	sender := &recordingSender{}
	enq := &fakeEnqueuer{}
	m := New(sender, testBranding(), testNotificationConfig{mode: ModeQueue}, nil, enq, nil)

	publishLeadCreated(t, m)

	if len(enq.ids) != 1 || enq.ids[0] != testLead().ID {
		t.Fatalf("expected lead to be enqueued once, got %v", enq.ids)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no inline sends, got %d", len(sender.sent))
	}
}

func TestQueueModeFallsBackToInlineWhenEnqueueFails(t *testing.T) {
	sender := &recordingSender{}
	enq := &fakeEnqueuer{err: errors.New("redis down")}
	m := New(sender, testBranding(), testNotificationConfig{mode: ModeQueue}, nil, enq, nil)

	publishLeadCreated(t, m)

	if len(sender.sent) != 2 {
		t.Fatalf("expected both emails inline, got %d", len(sender.sent))
	}
}

func TestQueueModeWithoutEnqueuerRunsInline(t *testing.T) {
	m := New(&recordingSender{}, testBranding(), testNotificationConfig{mode: ModeQueue}, nil, nil, nil)
	if m.mode != ModeInline {
		t.Fatalf("expected inline fallback, got %q", m.mode)
	}
}

func TestHandleIgnoresUnknownEvents(t *testing.T) {
	m := New(&recordingSender{}, testBranding(), testNotificationConfig{mode: ModeInline}, nil, nil, nil)
	if err := m.Handle(context.Background(), otherEvent{BaseEvent: events.NewBaseEvent()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type otherEvent struct {
	events.BaseEvent
}

func (otherEvent) EventName() string { return "other.event" }

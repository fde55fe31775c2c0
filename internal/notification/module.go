// Package notification reacts to new leads by emailing the studio and the
// visitor. Intake never waits for it: handlers run after the response is decided.
package notification

import (
	"context"
	"time"

	"photo_portal_backend/internal/email"
	"photo_portal_backend/internal/events"
	"photo_portal_backend/internal/observability/metrics"
	"photo_portal_backend/platform/config"
	"photo_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Delivery modes.
const (
	ModeInline = "inline"
	ModeQueue  = "queue"
)

// Enqueuer hands a lead to the background worker for delivery.
type Enqueuer interface {
	EnqueueLeadNotification(ctx context.Context, leadID uuid.UUID) error
}

// Module subscribes to lead events and delivers the lead emails either in
// process or through the queue.
type Module struct {
	dispatcher *Dispatcher
	mode       string
	enqueuer   Enqueuer
	log        *logger.Logger
}

// BrandingFromConfig builds the email branding from configuration.
func BrandingFromConfig(cfg config.BrandingConfig) Branding {
	return Branding{
		SiteURL:           cfg.GetSiteURL(),
		PhotographerName:  cfg.GetPhotographerName(),
		PhotographerEmail: cfg.GetPhotographerEmail(),
		PhotographerPhone: cfg.GetPhotographerPhone(),
		OperatorEmail:     cfg.GetLeadNotifyEmail(),
		Location:          cfg.GetLocation(),
	}
}

// New creates the notification module. enqueuer is required in queue mode only.
func New(sender email.Sender, branding Branding, cfg config.NotificationConfig, m *metrics.NotificationMetrics, enqueuer Enqueuer, log *logger.Logger) *Module {
	if log == nil {
		log = logger.Discard()
	}
	mode := cfg.GetNotificationMode()
	if mode == ModeQueue && enqueuer == nil {
		log.Warn("queue notification mode without enqueuer, falling back to inline")
		mode = ModeInline
	}
	return &Module{
		dispatcher: NewDispatcher(sender, branding, cfg.GetNotificationTimeout(), m, log),
		mode:       mode,
		enqueuer:   enqueuer,
		log:        log,
	}
}

func (m *Module) Name() string { return "notification" }

// Dispatcher exposes the sender pipeline to the queue worker.
func (m *Module) Dispatcher() *Dispatcher { return m.dispatcher }

// RegisterHandlers subscribes to lead events on the bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), m)
	m.log.Info("notification module registered event handlers", "mode", m.mode)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		return m.handleLeadCreated(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadCreated(ctx context.Context, e events.LeadCreated) error {
	if m.mode == ModeQueue {
		enqueueCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		err := m.enqueuer.EnqueueLeadNotification(enqueueCtx, e.Lead.ID)
		if err == nil {
			return nil
		}
		m.log.WithContext(ctx).Error("failed to enqueue lead notification, sending inline",
			"lead_id", e.Lead.ID.String(),
			"error", err,
		)
	}

	m.dispatcher.Notify(ctx, e.Lead)
	return nil
}

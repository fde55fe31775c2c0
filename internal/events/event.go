// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"photo_portal_backend/internal/leads/domain"
	"photo_portal_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// LeadCreated is published after a lead has been committed to the store.
// It carries the stored lead so listeners do not have to read it back.
type LeadCreated struct {
	BaseEvent
	Lead domain.Lead `json:"lead"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

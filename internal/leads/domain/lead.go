// Package domain holds the lead types shared by intake, storage and notification.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSource is recorded when a submission does not name its origin.
const DefaultSource = "formulario-contato"

// Lead is a persisted contact request. It is never updated or deleted by the
// intake pipeline.
type Lead struct {
	ID               uuid.UUID
	Name             string
	Email            string
	Phone            *string
	Message          string
	ServiceType      *string
	EventDate        *time.Time
	EventLocation    *string
	EstimatedBudget  *string
	ReferenceFileURL *string
	ProjectID        *string
	Source           string
	CreatedAt        time.Time
}

// Draft is a validated submission that has not been stored yet.
// ID and CreatedAt are assigned at insert.
type Draft struct {
	Name             string
	Email            string
	Phone            *string
	Message          string
	ServiceType      *string
	EventDate        *time.Time
	EventLocation    *string
	EstimatedBudget  *string
	ReferenceFileURL *string
	ProjectID        *string
	Source           string
}

// ProjectRef is the portfolio project a lead was sent from.
type ProjectRef struct {
	ID    string
	Title string
	Slug  string
}

// LeadWithProject decorates a lead for the dashboard listing.
type LeadWithProject struct {
	Lead
	Project *ProjectRef
}

// Stats summarizes lead volume for the dashboard.
type Stats struct {
	Total     int
	ThisMonth int
	ThisWeek  int
}

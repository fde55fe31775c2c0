package repository

import (
	"context"
	"errors"
	"time"

	"photo_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadWriter stores new leads. Leads are never updated or deleted here.
type LeadWriter interface {
	Create(ctx context.Context, draft domain.Draft) (domain.Lead, error)
}

// LeadReader provides read-only access to stored leads.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	List(ctx context.Context, params ListParams) ([]domain.LeadWithProject, int, error)
	Stats(ctx context.Context, now time.Time) (domain.Stats, error)
}

// LeadsRepository is the full lead store.
type LeadsRepository interface {
	LeadWriter
	LeadReader
}

// ListParams pages the dashboard listing. Results are always newest first.
type ListParams struct {
	Limit  int
	Offset int
}

func (p ListParams) normalized() ListParams {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// statsBoundaries returns the start of now's calendar month and the instant
// seven days before now, both in now's location.
func statsBoundaries(now time.Time) (monthStart, weekStart time.Time) {
	monthStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekStart = now.AddDate(0, 0, -7)
	return monthStart, weekStart
}

var errUnknownProject = errors.New("project does not exist")

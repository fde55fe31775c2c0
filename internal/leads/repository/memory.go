package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"photo_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// MemoryStore keeps leads in process. It backs local runs without Postgres and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	leads    map[uuid.UUID]domain.Lead
	projects map[string]domain.ProjectRef
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		leads:    make(map[uuid.UUID]domain.Lead),
		projects: make(map[string]domain.ProjectRef),
		now:      time.Now,
	}
}

// AddProject registers a project so leads can reference it.
func (m *MemoryStore) AddProject(p domain.ProjectRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = p
}

func (m *MemoryStore) Create(_ context.Context, draft domain.Draft) (domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if draft.ProjectID != nil {
		if _, ok := m.projects[*draft.ProjectID]; !ok {
			return domain.Lead{}, &domain.StorageError{Op: "insert", Err: errUnknownProject}
		}
	}

	lead := domain.Lead{
		ID:               uuid.New(),
		Name:             draft.Name,
		Email:            draft.Email,
		Phone:            draft.Phone,
		Message:          draft.Message,
		ServiceType:      draft.ServiceType,
		EventDate:        draft.EventDate,
		EventLocation:    draft.EventLocation,
		EstimatedBudget:  draft.EstimatedBudget,
		ReferenceFileURL: draft.ReferenceFileURL,
		ProjectID:        draft.ProjectID,
		Source:           draft.Source,
		CreatedAt:        m.now().UTC(),
	}
	if lead.Source == "" {
		lead.Source = domain.DefaultSource
	}
	m.leads[lead.ID] = lead
	return lead, nil
}

func (m *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lead, ok := m.leads[id]
	if !ok {
		return domain.Lead{}, domain.ErrNotFound
	}
	return lead, nil
}

func (m *MemoryStore) List(_ context.Context, params ListParams) ([]domain.LeadWithProject, int, error) {
	params = params.normalized()

	m.mu.RLock()
	all := make([]domain.Lead, 0, len(m.leads))
	for _, l := range m.leads {
		all = append(all, l)
	}
	projects := make(map[string]domain.ProjectRef, len(m.projects))
	for k, v := range m.projects {
		projects[k] = v
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if params.Offset >= total {
		return []domain.LeadWithProject{}, total, nil
	}
	end := min(params.Offset+params.Limit, total)

	items := make([]domain.LeadWithProject, 0, end-params.Offset)
	for _, l := range all[params.Offset:end] {
		item := domain.LeadWithProject{Lead: l}
		if l.ProjectID != nil {
			if p, ok := projects[*l.ProjectID]; ok {
				item.Project = &p
			}
		}
		items = append(items, item)
	}
	return items, total, nil
}

func (m *MemoryStore) Stats(_ context.Context, now time.Time) (domain.Stats, error) {
	monthStart, weekStart := statsBoundaries(now)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats domain.Stats
	for _, l := range m.leads {
		stats.Total++
		if !l.CreatedAt.Before(monthStart) {
			stats.ThisMonth++
		}
		if !l.CreatedAt.Before(weekStart) {
			stats.ThisWeek++
		}
	}
	return stats, nil
}

var _ LeadsRepository = (*MemoryStore)(nil)

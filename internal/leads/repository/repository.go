package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photo_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the Postgres lead store.
type Repository struct {
	db DB
}

func New(db DB) *Repository {
	return &Repository{db: db}
}

const leadColumns = `l.id, l.name, l.email, l.phone, l.message, l.service_type, l.event_date,
	l.event_location, l.estimated_budget, l.reference_file_url, l.project_id, l.source, l.created_at`

// Create inserts the draft inside a transaction. The id is generated here and
// created_at is assigned by the database.
func (r *Repository) Create(ctx context.Context, draft domain.Draft) (domain.Lead, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Lead{}, &domain.StorageError{Op: "begin", Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

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
	}
	if lead.Source == "" {
		lead.Source = domain.DefaultSource
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO leads (
			id, name, email, phone, message, service_type, event_date,
			event_location, estimated_budget, reference_file_url, project_id, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Message, lead.ServiceType, lead.EventDate,
		lead.EventLocation, lead.EstimatedBudget, lead.ReferenceFileURL, lead.ProjectID, lead.Source,
	).Scan(&lead.CreatedAt)
	if err != nil {
		return domain.Lead{}, &domain.StorageError{Op: "insert", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Lead{}, &domain.StorageError{Op: "commit", Err: err}
	}
	committed = true

	return lead, nil
}

// GetByID returns domain.ErrNotFound when no lead has the id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	row := r.db.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads l WHERE l.id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, &domain.StorageError{Op: "get", Err: err}
	}
	return lead, nil
}

// List returns one page of leads, newest first, with the linked project and the total count.
func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.LeadWithProject, int, error) {
	params = params.normalized()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM leads`).Scan(&total); err != nil {
		return nil, 0, &domain.StorageError{Op: "count", Err: err}
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+leadColumns+`, p.id, p.title, p.slug
		FROM leads l
		LEFT JOIN projects p ON p.id = l.project_id
		ORDER BY l.created_at DESC, l.id
		LIMIT $1 OFFSET $2
	`, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, &domain.StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	items := make([]domain.LeadWithProject, 0, params.Limit)
	for rows.Next() {
		var (
			item                   domain.LeadWithProject
			projectID, title, slug *string
		)
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Email, &item.Phone, &item.Message, &item.ServiceType, &item.EventDate,
			&item.EventLocation, &item.EstimatedBudget, &item.ReferenceFileURL, &item.ProjectID, &item.Source, &item.CreatedAt,
			&projectID, &title, &slug,
		); err != nil {
			return nil, 0, &domain.StorageError{Op: "list scan", Err: err}
		}
		if projectID != nil {
			item.Project = &domain.ProjectRef{ID: *projectID, Title: deref(title), Slug: deref(slug)}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, &domain.StorageError{Op: "list rows", Err: err}
	}

	return items, total, nil
}

// Stats counts all leads, those since the start of now's month and those from the last seven days.
func (r *Repository) Stats(ctx context.Context, now time.Time) (domain.Stats, error) {
	monthStart, weekStart := statsBoundaries(now)

	var stats domain.Stats
	err := r.db.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE created_at >= $1),
			count(*) FILTER (WHERE created_at >= $2)
		FROM leads
	`, monthStart, weekStart).Scan(&stats.Total, &stats.ThisMonth, &stats.ThisWeek)
	if err != nil {
		return domain.Stats{}, &domain.StorageError{Op: "stats", Err: err}
	}
	return stats, nil
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Message, &lead.ServiceType, &lead.EventDate,
		&lead.EventLocation, &lead.EstimatedBudget, &lead.ReferenceFileURL, &lead.ProjectID, &lead.Source, &lead.CreatedAt,
	)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("scan lead: %w", err)
	}
	return lead, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ LeadsRepository = (*Repository)(nil)

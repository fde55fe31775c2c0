package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"photo_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var leadColumnNames = []string{
	"id", "name", "email", "phone", "message", "service_type", "event_date",
	"event_location", "estimated_budget", "reference_file_url", "project_id", "source", "created_at",
}

func strPtr(s string) *string { return &s }

func TestCreateInsertsInTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(pgxmock.AnyArg(), "Ana", "ana@example.com", strPtr("+5511999999999"), "Quero um ensaio",
			(*string)(nil), (*time.Time)(nil), (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil),
			domain.DefaultSource).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))
	mock.ExpectCommit()

	repo := New(mock)
	lead, err := repo.Create(context.Background(), domain.Draft{
		Name:    "Ana",
		Email:   "ana@example.com",
		Phone:   strPtr("+5511999999999"),
		Message: "Quero um ensaio",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if lead.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if !lead.CreatedAt.Equal(createdAt) {
		t.Fatalf("created_at = %v, want %v", lead.CreatedAt, createdAt)
	}
	if lead.Source != domain.DefaultSource {
		t.Fatalf("source = %q", lead.Source)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateRollsBackOnInsertFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	insertErr := errors.New("violates foreign key constraint")
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO leads").WillReturnError(insertErr)
	mock.ExpectRollback()

	_, err = New(mock).Create(context.Background(), domain.Draft{
		Name: "Ana", Email: "ana@example.com", Message: "Quero um ensaio", ProjectID: strPtr("missing"), Source: "portfolio",
	})
	var storeErr *domain.StorageError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if !errors.Is(err, insertErr) {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByIDMapsNoRowsToNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery("FROM leads l WHERE l.id").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err = New(mock).GetByID(context.Background(), id)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByIDScansLead(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	createdAt := time.Now().UTC()
	mock.ExpectQuery("FROM leads l WHERE l.id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(leadColumnNames).AddRow(
			id, "Ana", "ana@example.com", (*string)(nil), "Quero um ensaio", strPtr("casamento"), (*time.Time)(nil),
			(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), "portfolio", createdAt,
		))

	lead, err := New(mock).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if lead.ID != id || lead.Name != "Ana" || lead.Source != "portfolio" {
		t.Fatalf("unexpected lead: %+v", lead)
	}
	if lead.ServiceType == nil || *lead.ServiceType != "casamento" {
		t.Fatalf("service type = %v", lead.ServiceType)
	}
}

func TestListJoinsProjects(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	withProject, withoutProject := uuid.New(), uuid.New()
	cols := append(append([]string{}, leadColumnNames...), "p_id", "p_title", "p_slug")

	mock.ExpectQuery(`SELECT count\(\*\) FROM leads`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("LEFT JOIN projects").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(withProject, "Ana", "ana@example.com", (*string)(nil), "Quero um ensaio", (*string)(nil), (*time.Time)(nil),
				(*string)(nil), (*string)(nil), (*string)(nil), strPtr("proj-1"), "portfolio", now,
				strPtr("proj-1"), strPtr("Casamento na praia"), strPtr("casamento-na-praia")).
			AddRow(withoutProject, "Bia", "bia@example.com", (*string)(nil), "Quero um ensaio", (*string)(nil), (*time.Time)(nil),
				(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), domain.DefaultSource, now.Add(-time.Hour),
				(*string)(nil), (*string)(nil), (*string)(nil)))

	items, total, err := New(mock).List(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("total=%d len=%d", total, len(items))
	}
	if items[0].Project == nil || items[0].Project.Slug != "casamento-na-praia" {
		t.Fatalf("expected joined project, got %+v", items[0].Project)
	}
	if items[1].Project != nil {
		t.Fatalf("expected no project, got %+v", items[1].Project)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatsUsesMonthAndWeekBoundaries(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Date(2024, 3, 20, 15, 30, 0, 0, time.UTC)
	mock.ExpectQuery("FILTER").
		WithArgs(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)).
		WillReturnRows(pgxmock.NewRows([]string{"total", "month", "week"}).AddRow(12, 5, 2))

	stats, err := New(mock).Stats(context.Background(), now)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats != (domain.Stats{Total: 12, ThisMonth: 5, ThisWeek: 2}) {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// Package leads provides lead intake functionality.
// This file defines the public API of the leads bounded context.
// Only types and interfaces defined here should be imported by other domains.
package leads

import (
	"context"

	"photo_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Reader is the read access other domains get to stored leads.
type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
}

// Package store persists submission records.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/models"
)

// Store persists submissions and answers the counting queries the submission
// policy needs. Status and spam updates exist for the owner dashboard; the
// engine never deletes records.
type Store interface {
	Create(ctx context.Context, sub *models.Submission) error
	// CountNonSpam returns how many non-spam submissions a form has
	// accepted; spam records never consume the form's maxSubmissions quota.
	CountNonSpam(ctx context.Context, formID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	SetSpam(ctx context.Context, id uuid.UUID, isSpam bool) error
}

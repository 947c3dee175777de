// Package store persists form definitions. The submission path only ever
// reads; form authoring happens out of process.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
)

// Store loads form schemas for the submission path.
type Store interface {
	// GetFormWithFields returns the form and its full field list, or
	// sentinel.ErrNotFound.
	GetFormWithFields(ctx context.Context, formID uuid.UUID) (*models.Form, error)
}

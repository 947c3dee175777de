package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/sentinel"
)

// InMemory stores forms in memory for tests and single-node development.
type InMemory struct {
	mu    sync.RWMutex
	forms map[uuid.UUID]*models.Form
}

// NewInMemory creates an in-memory form store.
func NewInMemory() *InMemory {
	return &InMemory{forms: make(map[uuid.UUID]*models.Form)}
}

// Put validates and stores a form definition.
func (s *InMemory) Put(_ context.Context, form *models.Form) error {
	if err := form.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[form.ID] = form
	return nil
}

// GetFormWithFields returns the form with the given id.
func (s *InMemory) GetFormWithFields(_ context.Context, formID uuid.UUID) (*models.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if form, ok := s.forms[formID]; ok {
		return form, nil
	}
	return nil, sentinel.ErrNotFound
}

package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/sentinel"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/models"
)

// InMemory stores submissions in memory for tests and single-node
// development.
type InMemory struct {
	mu          sync.RWMutex
	submissions map[uuid.UUID]*models.Submission
}

// NewInMemory creates an in-memory submission store.
func NewInMemory() *InMemory {
	return &InMemory{submissions: make(map[uuid.UUID]*models.Submission)}
}

// Create persists the submission.
func (s *InMemory) Create(_ context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sub
	s.submissions[sub.ID] = &copied
	return nil
}

// CountNonSpam returns the number of non-spam submissions for a form.
func (s *InMemory) CountNonSpam(_ context.Context, formID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, sub := range s.submissions {
		if sub.FormID == formID && !sub.IsSpam {
			count++
		}
	}
	return count, nil
}

// UpdateStatus changes a submission's review status.
func (s *InMemory) UpdateStatus(_ context.Context, id uuid.UUID, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	sub.Status = status
	return nil
}

// SetSpam toggles a submission's spam flag.
func (s *InMemory) SetSpam(_ context.Context, id uuid.UUID, isSpam bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	sub.IsSpam = isSpam
	return nil
}

// Get returns a stored submission; test helper.
func (s *InMemory) Get(id uuid.UUID) (*models.Submission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	return sub, ok
}

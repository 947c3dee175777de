package models

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks a submission's review lifecycle. The engine only ever
// creates NEW records; later transitions come from the owner dashboard.
type Status string

const (
	StatusNew      Status = "NEW"
	StatusRead     Status = "READ"
	StatusArchived Status = "ARCHIVED"
)

// Meta is the request-derived metadata stored with a submission. IPHash is a
// keyed one-way hash; the raw address is never retained. Client is a
// human-readable rendering of the user agent ("Chrome on macOS").
type Meta struct {
	IPHash    string `json:"ip_hash"`
	UserAgent string `json:"user_agent,omitempty"`
	Client    string `json:"client,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
	Origin    string `json:"origin,omitempty"`
}

// Submission is the persisted record of one accepted payload. Data holds the
// normalized field values keyed by field name.
type Submission struct {
	ID        uuid.UUID      `json:"id"`
	FormID    uuid.UUID      `json:"form_id"`
	Data      map[string]any `json:"data"`
	Meta      Meta           `json:"meta"`
	IsSpam    bool           `json:"is_spam"`
	Status    Status         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

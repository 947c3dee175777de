package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/sentinel"
)

// PostgresStore reads form definitions from PostgreSQL. Fields are stored as
// a JSONB document; the typed unions resolve during decoding.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed form store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetFormWithFields returns the form with the given id.
func (s *PostgresStore) GetFormWithFields(ctx context.Context, formID uuid.UUID) (*models.Form, error) {
	query := `
		SELECT id, name, fields, allowed_domains, honeypot_field,
		       stop_at, max_submissions, notify_emails, created_at
		FROM forms
		WHERE id = $1
	`

	var (
		form        models.Form
		fieldsJSON  []byte
		domainsJSON []byte
		emailsJSON  []byte
		honeypot    sql.NullString
		stopAt      sql.NullTime
		maxSubs     sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, query, formID).Scan(
		&form.ID,
		&form.Name,
		&fieldsJSON,
		&domainsJSON,
		&honeypot,
		&stopAt,
		&maxSubs,
		&emailsJSON,
		&form.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find form by id: %w", err)
	}

	if err := json.Unmarshal(fieldsJSON, &form.Fields); err != nil {
		return nil, fmt.Errorf("decode form fields: %w", err)
	}
	if len(domainsJSON) > 0 {
		if err := json.Unmarshal(domainsJSON, &form.AllowedDomains); err != nil {
			return nil, fmt.Errorf("decode allowed domains: %w", err)
		}
	}
	if len(emailsJSON) > 0 {
		if err := json.Unmarshal(emailsJSON, &form.NotifyEmails); err != nil {
			return nil, fmt.Errorf("decode notify emails: %w", err)
		}
	}
	form.HoneypotField = honeypot.String
	if stopAt.Valid {
		t := stopAt.Time.UTC()
		form.StopAt = &t
	}
	form.MaxSubmissions = int(maxSubs.Int64)

	return &form, nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/sentinel"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/models"
)

// PostgresStore persists submissions in PostgreSQL. The normalized payload
// and request metadata are stored as JSONB documents.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed submission store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create persists the submission.
func (s *PostgresStore) Create(ctx context.Context, sub *models.Submission) error {
	dataJSON, err := json.Marshal(sub.Data)
	if err != nil {
		return fmt.Errorf("encode submission data: %w", err)
	}
	metaJSON, err := json.Marshal(sub.Meta)
	if err != nil {
		return fmt.Errorf("encode submission meta: %w", err)
	}

	query := `
		INSERT INTO submissions (id, form_id, data, meta, is_spam, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		sub.ID,
		sub.FormID,
		dataJSON,
		metaJSON,
		sub.IsSpam,
		string(sub.Status),
		sub.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("submission id already exists: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// CountNonSpam returns the number of non-spam submissions for a form.
func (s *PostgresStore) CountNonSpam(ctx context.Context, formID uuid.UUID) (int, error) {
	query := `SELECT count(*) FROM submissions WHERE form_id = $1 AND NOT is_spam`
	var count int
	if err := s.db.QueryRowContext(ctx, query, formID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return count, nil
}

// UpdateStatus changes a submission's review status.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	return ensureRowUpdated(result)
}

// SetSpam toggles a submission's spam flag.
func (s *PostgresStore) SetSpam(ctx context.Context, id uuid.UUID, isSpam bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET is_spam = $2 WHERE id = $1`, id, isSpam)
	if err != nil {
		return fmt.Errorf("update submission spam flag: %w", err)
	}
	return ensureRowUpdated(result)
}

func ensureRowUpdated(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

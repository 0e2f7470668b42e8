package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/liftplan/internal/models"
	"github.com/meltforce/liftplan/internal/workflow"
)

const sessionColumns = `id, plan_date, status, rest_interval_seconds, started_at, completed_at, notes`

// GetActiveSession returns the active session for a plan date, or nil.
// The partial unique index guarantees at most one row matches.
func (db *DB) GetActiveSession(ctx context.Context, date string) (*models.TrainingSession, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM training_sessions
		 WHERE plan_date = $1 AND status = $2`,
		date, models.SessionActive)

	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying active session for %s: %w", date, err)
	}
	return s, nil
}

// GetSession returns a session by ID regardless of status, or nil.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM training_sessions WHERE id = $1`, id)

	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying session %s: %w", id, err)
	}
	return s, nil
}

// CreateSession inserts a new session. A second active session for the
// same plan date violates the partial unique index and reports Conflict.
func (db *DB) CreateSession(ctx context.Context, s *models.TrainingSession) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO training_sessions (id, plan_date, status, rest_interval_seconds, started_at, completed_at, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.PlanDate, s.Status, s.RestIntervalSeconds, s.StartedAt, s.CompletedAt, s.Notes)
	if isUniqueViolation(err) {
		return fmt.Errorf("active session already exists for %s: %w", s.PlanDate, workflow.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// CompleteSession marks a session completed. The status transition is
// irreversible; callers must check the current status first.
func (db *DB) CompleteSession(ctx context.Context, id uuid.UUID, completedAt time.Time, notes *string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE training_sessions SET status = $1, completed_at = $2, notes = $3 WHERE id = $4`,
		models.SessionCompleted, completedAt, notes, id)
	if err != nil {
		return fmt.Errorf("completing session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", id, workflow.ErrNotFound)
	}
	return nil
}

func scanSession(row pgx.Row) (*models.TrainingSession, error) {
	var s models.TrainingSession
	if err := row.Scan(&s.ID, &s.PlanDate, &s.Status, &s.RestIntervalSeconds,
		&s.StartedAt, &s.CompletedAt, &s.Notes); err != nil {
		return nil, err
	}
	return &s, nil
}

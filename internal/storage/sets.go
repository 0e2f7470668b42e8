package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meltforce/liftplan/internal/models"
	"github.com/meltforce/liftplan/internal/workflow"
)

// AppendSet inserts one logged set. The (session_id, exercise, set_number)
// key is unique, so a double submit loses with Conflict instead of
// rewriting history.
func (db *DB) AppendSet(ctx context.Context, set *models.TrainingSet) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO training_sets (id, session_id, exercise, set_number, actual_reps,
		 actual_weight, rpe, rest_seconds, notes, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		set.ID, set.SessionID, set.Exercise, set.SetNumber, set.ActualReps,
		set.ActualWeight, set.RPE, set.RestSeconds, set.Notes, set.CompletedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("set %d for %q already logged: %w", set.SetNumber, set.Exercise, workflow.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("inserting training set: %w", err)
	}
	return nil
}

// ListSets returns a session's set log in completion order.
func (db *DB) ListSets(ctx context.Context, sessionID uuid.UUID) ([]models.TrainingSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, exercise, set_number, actual_reps, actual_weight,
		 rpe, rest_seconds, notes, completed_at
		 FROM training_sets WHERE session_id = $1
		 ORDER BY completed_at ASC, set_number ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying training sets: %w", err)
	}
	defer rows.Close()

	var result []models.TrainingSet
	for rows.Next() {
		var s models.TrainingSet
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Exercise, &s.SetNumber, &s.ActualReps,
			&s.ActualWeight, &s.RPE, &s.RestSeconds, &s.Notes, &s.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning training set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// ListRecentSets returns the newest logged sets across all sessions,
// joined with their session's plan date, for the history view.
func (db *DB) ListRecentSets(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT t.session_id, s.plan_date, t.exercise, t.set_number, t.actual_reps,
		 t.actual_weight, t.rpe, t.rest_seconds, t.notes, t.completed_at
		 FROM training_sets t
		 JOIN training_sessions s ON t.session_id = s.id
		 ORDER BY t.completed_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying training history: %w", err)
	}
	defer rows.Close()

	var result []models.HistoryEntry
	for rows.Next() {
		var h models.HistoryEntry
		if err := rows.Scan(&h.SessionID, &h.PlanDate, &h.Exercise, &h.SetNumber, &h.ActualReps,
			&h.ActualWeight, &h.RPE, &h.RestSeconds, &h.Notes, &h.LogDate); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Training session lifecycle states. A session is created active and
// transitions to completed exactly once.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// TrainingSession is one attempt at a day's plan. At most one active
// session exists per plan date.
type TrainingSession struct {
	ID                  uuid.UUID  `json:"session_id"`
	PlanDate            string     `json:"plan_date"`
	Status              string     `json:"status"`
	RestIntervalSeconds int        `json:"rest_interval_seconds"`
	StartedAt           time.Time  `json:"started_at"`
	CompletedAt         *time.Time `json:"completed_at"`
	Notes               *string    `json:"notes"`
}

// IsActive reports whether the session can still accept logged sets.
func (s *TrainingSession) IsActive() bool {
	return s.Status == SessionActive && s.CompletedAt == nil
}

// TrainingSet is one completed set, an append-only log entry.
// (session_id, exercise, set_number) is unique; history is never edited.
type TrainingSet struct {
	ID           uuid.UUID `json:"id"`
	SessionID    uuid.UUID `json:"session_id"`
	Exercise     string    `json:"exercise"`
	SetNumber    int       `json:"set_number"`
	ActualReps   *int      `json:"actual_reps"`
	ActualWeight *string   `json:"actual_weight"`
	RPE          *float64  `json:"rpe"`
	RestSeconds  *int      `json:"rest_seconds"`
	Notes        *string   `json:"notes"`
	CompletedAt  time.Time `json:"completed_at"`
}

// HistoryEntry is a logged set joined with its session's plan date, used
// by the training-history endpoint.
type HistoryEntry struct {
	SessionID    uuid.UUID `json:"session_id"`
	PlanDate     string    `json:"plan_date"`
	Exercise     string    `json:"exercise_name"`
	SetNumber    int       `json:"set_number"`
	ActualReps   *int      `json:"actual_reps"`
	ActualWeight *string   `json:"actual_weight"`
	RPE          *float64  `json:"rpe"`
	RestSeconds  *int      `json:"rest_seconds"`
	Notes        *string   `json:"notes"`
	LogDate      time.Time `json:"log_date"`
}

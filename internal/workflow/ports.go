package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/liftplan/internal/models"
)

// Store is the persistence contract the engine requires. Implementations
// must be read-your-own-write consistent for a single session ID, and must
// return ErrConflict when a uniqueness constraint rejects a write: the
// active-session-per-date index for CreateSession, and the
// (session_id, exercise, set_number) key for AppendSet.
type Store interface {
	// GetActiveSession returns the active session for a date, or nil.
	GetActiveSession(ctx context.Context, date string) (*models.TrainingSession, error)
	// GetSession returns a session by ID regardless of status, or nil.
	GetSession(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error)
	CreateSession(ctx context.Context, s *models.TrainingSession) error
	// CompleteSession marks a session completed. ErrNotFound if missing.
	CompleteSession(ctx context.Context, id uuid.UUID, completedAt time.Time, notes *string) error
	AppendSet(ctx context.Context, set *models.TrainingSet) error
	// ListSets returns a session's log ordered by completion time.
	ListSets(ctx context.Context, sessionID uuid.UUID) ([]models.TrainingSet, error)
}

// PlanSource provides the read-only day plans the engine progresses
// through. GetDayPlan returns nil (not an error) for dates with no plan.
type PlanSource interface {
	GetDayPlan(ctx context.Context, date string) (*models.DayPlan, error)
}

// Package workflow derives "what should happen next" in a training
// session from the day's plan and the session's append-only set log.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/liftplan/internal/models"
	"github.com/meltforce/liftplan/internal/plan"
)

// DefaultRestSeconds applies when neither the plan nor the caller supplies
// a rest interval.
const DefaultRestSeconds = 90

// Engine computes workflow state transitions. It holds no per-session
// state of its own; everything is recomputed from the store on each call,
// so concurrent requests for different sessions are fully independent.
type Engine struct {
	store Store
	plans PlanSource
	log   *slog.Logger
	now   func() time.Time
}

// New creates an Engine.
func New(store Store, plans PlanSource, log *slog.Logger) *Engine {
	return &Engine{store: store, plans: plans, log: log, now: time.Now}
}

// WithClock overrides the engine's clock. Test use only.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// LogSetRequest carries the caller-reported fields for one set.
type LogSetRequest struct {
	SessionID           uuid.UUID
	ActualReps          *int
	ActualWeight        *string
	RPE                 *float64
	Notes               *string
	RestIntervalSeconds *int
}

// Start resumes the active session for a date, or creates one. Starting a
// rest day is rejected. A create racing another create is resolved by
// treating the store's uniqueness rejection as "resume existing".
func (e *Engine) Start(ctx context.Context, date string, restSeconds *int) (*State, error) {
	summary, err := e.loadSummary(ctx, date)
	if err != nil {
		return nil, err
	}
	if summary.IsRestDay {
		return nil, fmt.Errorf("%w: no trackable exercises on %s", ErrInvalidState, date)
	}

	existing, err := e.store.GetActiveSession(ctx, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		e.log.Info("resuming training session", "date", date, "session_id", existing.ID)
		return e.project(ctx, existing, summary, nil)
	}

	rest := DefaultRestSeconds
	if summary.DefaultRestSeconds != nil {
		rest = *summary.DefaultRestSeconds
	}
	if restSeconds != nil && *restSeconds > 0 {
		rest = *restSeconds
	}

	session := &models.TrainingSession{
		ID:                  uuid.New(),
		PlanDate:            date,
		Status:              models.SessionActive,
		RestIntervalSeconds: rest,
		StartedAt:           e.now().UTC(),
	}
	if err := e.store.CreateSession(ctx, session); err != nil {
		if errors.Is(err, ErrConflict) {
			// Lost a create race; the winner's session is ours to resume.
			winner, getErr := e.store.GetActiveSession(ctx, date)
			if getErr != nil {
				return nil, getErr
			}
			if winner == nil {
				return nil, err
			}
			e.log.Info("create race lost, resuming winner", "date", date, "session_id", winner.ID)
			return e.project(ctx, winner, summary, nil)
		}
		return nil, err
	}

	e.log.Info("created training session", "date", date, "session_id", session.ID)
	return e.project(ctx, session, summary, nil)
}

// LogNextSet appends the next set for the session's current exercise and
// returns the recomputed state. A store conflict (double submit) is
// retried once against the fresh log before being surfaced.
func (e *Engine) LogNextSet(ctx context.Context, req LogSetRequest) (*State, error) {
	session, summary, err := e.loadSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, fmt.Errorf("%w: session %s is %s", ErrInvalidState, session.ID, session.Status)
	}

	state, err := e.appendNext(ctx, session, summary, req)
	if errors.Is(err, ErrConflict) {
		e.log.Warn("set conflict, recomputing", "session_id", session.ID)
		state, err = e.appendNext(ctx, session, summary, req)
	}
	return state, err
}

// appendNext performs one derive-and-append pass over the current log.
func (e *Engine) appendNext(ctx context.Context, session *models.TrainingSession, summary *models.PlanSummary, req LogSetRequest) (*State, error) {
	sets, err := e.store.ListSets(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	step := nextStep(summary, sets)
	if step == nil {
		return nil, fmt.Errorf("%w: all targets met for %s", ErrPlanExhausted, session.PlanDate)
	}

	rest := session.RestIntervalSeconds
	if step.TargetRestSeconds != nil {
		rest = *step.TargetRestSeconds
	}
	if req.RestIntervalSeconds != nil && *req.RestIntervalSeconds > 0 {
		rest = *req.RestIntervalSeconds
	}

	set := &models.TrainingSet{
		ID:           uuid.New(),
		SessionID:    session.ID,
		Exercise:     step.Exercise,
		SetNumber:    step.NextSet,
		ActualReps:   req.ActualReps,
		ActualWeight: req.ActualWeight,
		RPE:          req.RPE,
		RestSeconds:  &rest,
		Notes:        req.Notes,
		CompletedAt:  e.now().UTC(),
	}
	if err := e.store.AppendSet(ctx, set); err != nil {
		return nil, err
	}
	e.log.Info("logged set", "session_id", session.ID, "exercise", set.Exercise, "set_number", set.SetNumber)

	state, err := e.project(ctx, session, summary, set)
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Finish completes a session. Finishing an already-completed session is an
// InvalidState error, not a no-op: clients are expected to check status
// first rather than rely on idempotent retries.
func (e *Engine) Finish(ctx context.Context, sessionID uuid.UUID, notes *string) (*State, error) {
	session, summary, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, fmt.Errorf("%w: session %s already completed", ErrInvalidState, sessionID)
	}

	completedAt := e.now().UTC()
	if err := e.store.CompleteSession(ctx, sessionID, completedAt, notes); err != nil {
		return nil, err
	}
	session.Status = models.SessionCompleted
	session.CompletedAt = &completedAt
	session.Notes = notes

	e.log.Info("completed training session", "session_id", sessionID, "date", session.PlanDate)
	return e.project(ctx, session, summary, nil)
}

// Current returns the read-only projection for a date. It never mutates.
func (e *Engine) Current(ctx context.Context, date string) (*State, error) {
	session, err := e.store.GetActiveSession(ctx, date)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &State{Status: StatusNoSession, PlanDate: date}, nil
	}

	summary, err := e.loadSummary(ctx, date)
	if err != nil {
		return nil, err
	}
	return e.project(ctx, session, summary, nil)
}

// loadSession fetches a session by ID together with its day's summary.
func (e *Engine) loadSession(ctx context.Context, id uuid.UUID) (*models.TrainingSession, *models.PlanSummary, error) {
	session, err := e.store.GetSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, fmt.Errorf("%w: session %s", ErrNotFound, id)
	}
	summary, err := e.loadSummary(ctx, session.PlanDate)
	if err != nil {
		return nil, nil, err
	}
	return session, summary, nil
}

func (e *Engine) loadSummary(ctx context.Context, date string) (*models.PlanSummary, error) {
	day, err := e.plans.GetDayPlan(ctx, date)
	if err != nil {
		return nil, err
	}
	return plan.Summarize(date, day), nil
}

// project assembles the full workflow state for a session. lastLog, when
// non-nil, is the set just appended and drives the rest countdown anchor.
func (e *Engine) project(ctx context.Context, session *models.TrainingSession, summary *models.PlanSummary, lastLog *models.TrainingSet) (*State, error) {
	sets, err := e.store.ListSets(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	state := &State{
		Status:   StatusActive,
		PlanDate: session.PlanDate,
		Session:  session,
		Plan:     summary,
		LastLog:  lastLog,
	}
	if session.Status == models.SessionCompleted {
		state.Status = StatusCompleted
	}

	step := nextStep(summary, sets)
	if step != nil {
		state.Next = step
		state.CurrentExercise = &step.Exercise
		state.CurrentSet = &step.NextSet
	}

	if state.Status == StatusActive && len(sets) > 0 {
		last := sets[len(sets)-1]
		rest := session.RestIntervalSeconds
		if last.RestSeconds != nil {
			rest = *last.RestSeconds
		}
		end := last.CompletedAt.Add(time.Duration(rest) * time.Second)
		state.RestSeconds = &rest
		state.RestEndTime = &end
		if e.now().Before(end) {
			state.Status = StatusRest
		}
	}

	return state, nil
}

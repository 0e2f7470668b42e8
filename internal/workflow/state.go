package workflow

import (
	"time"

	"github.com/meltforce/liftplan/internal/models"
)

// Workflow statuses as seen by clients. Rest is a transient sub-state of
// active: the engine never enforces it, it only reports when the rest
// countdown ends so the client can render it.
const (
	StatusNoSession = "no_session"
	StatusActive    = "active"
	StatusRest      = "rest"
	StatusCompleted = "completed"
)

// NextStep points at the set the user should perform next.
type NextStep struct {
	Exercise          string   `json:"exercise"`
	NextSet           int      `json:"next_set"`
	TargetSets        *int     `json:"target_sets"`
	TargetReps        *int     `json:"target_reps"`
	TargetWeight      *string  `json:"target_weight"`
	TargetRestSeconds *int     `json:"target_rest_seconds"`
	Details           []string `json:"details"`
	IsCombination     bool     `json:"is_combination"`
	Components        []string `json:"components"`
	PrimaryComponent  string   `json:"primary_component"`
}

// State is the derived, read-only projection of plan + session + logged
// sets into "what's next". It is recomputed on every request and never
// stored.
type State struct {
	Status   string                  `json:"status"`
	PlanDate string                  `json:"plan_date,omitempty"`
	Session  *models.TrainingSession `json:"session,omitempty"`
	Plan     *models.PlanSummary     `json:"plan,omitempty"`

	CurrentExercise *string   `json:"current_exercise"`
	CurrentSet      *int      `json:"current_set"`
	Next            *NextStep `json:"next,omitempty"`

	RestSeconds *int       `json:"rest_seconds,omitempty"`
	RestEndTime *time.Time `json:"rest_end_time,omitempty"`

	LastLog *models.TrainingSet `json:"last_log,omitempty"`
}

// nextStep derives the plan pointer: the first trackable exercise in plan
// order whose logged-set count is below its target. A nil target counts
// as one set, so an untargeted exercise is satisfied by any single log.
// Returns nil when every trackable target is met.
func nextStep(summary *models.PlanSummary, sets []models.TrainingSet) *NextStep {
	if summary == nil || len(summary.Exercises) == 0 {
		return nil
	}

	// Highest set number logged per exercise key.
	counts := make(map[string]int)
	for _, s := range sets {
		if s.SetNumber > counts[s.Exercise] {
			counts[s.Exercise] = s.SetNumber
		}
	}

	for _, ex := range summary.Exercises {
		if !ex.IsTrackable {
			continue
		}
		goal := 1
		if ex.TargetSets != nil {
			goal = *ex.TargetSets
		}
		logged := counts[ex.PrimaryComponent]
		if logged < goal {
			return &NextStep{
				Exercise:          ex.PrimaryComponent,
				NextSet:           logged + 1,
				TargetSets:        ex.TargetSets,
				TargetReps:        ex.TargetReps,
				TargetWeight:      ex.TargetWeight,
				TargetRestSeconds: ex.TargetRestSeconds,
				Details:           ex.Details,
				IsCombination:     ex.IsCombination,
				Components:        ex.Components,
				PrimaryComponent:  ex.PrimaryComponent,
			}
		}
	}
	return nil
}

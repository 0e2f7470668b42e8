package models

import "time"

// Exercise categories assigned by the plan normalizer.
const (
	CategoryExercise = "exercise"
	CategoryNote     = "note"
	CategoryRest     = "rest"
	CategoryWarmup   = "warmup"
	CategoryLog      = "log"
)

// DayPlan is the raw per-date plan block extracted from an uploaded
// workbook, persisted as-is in the workout_plans table. Rows keep the
// original cell text; normalization happens on read.
type DayPlan struct {
	Date       string     `json:"date"`
	Phase      string     `json:"phase"`
	Headers    []string   `json:"headers"`
	Remarks    []string   `json:"remarks"`
	Rows       [][]string `json:"rows"`
	UploadedAt time.Time  `json:"uploaded_at,omitzero"`
}

// PlanExercise is one normalized row of a day's plan. Plan order defines
// workout order.
type PlanExercise struct {
	ExerciseName string `json:"exercise_name"`
	Category     string `json:"category"`

	// Components holds the named movements of this row, in order. A single
	// entry means a plain exercise; more than one means a superset logged
	// under the primary (first) component.
	Components       []string `json:"components"`
	PrimaryComponent string   `json:"primary_component"`
	IsCombination    bool     `json:"is_combination"`

	TargetSets        *int    `json:"target_sets"`
	TargetReps        *int    `json:"target_reps"`
	TargetWeight      *string `json:"target_weight"`
	TargetRestSeconds *int    `json:"target_rest_seconds"`

	Details     []string `json:"details"`
	IsTrackable bool     `json:"is_trackable"`
}

// PlanSummary aggregates a day's normalized exercises.
type PlanSummary struct {
	Date                   string         `json:"date"`
	Phase                  string         `json:"phase"`
	Remarks                []string       `json:"remarks"`
	Exercises              []PlanExercise `json:"exercises"`
	DefaultRestSeconds     *int           `json:"default_rest_seconds"`
	TrackableExerciseCount int            `json:"trackable_exercise_count"`
	NoteExerciseCount      int            `json:"note_exercise_count"`
	IsRestDay              bool           `json:"is_rest_day"`
}

// Trackable returns the trackable exercises in plan order.
func (p *PlanSummary) Trackable() []PlanExercise {
	var out []PlanExercise
	for _, e := range p.Exercises {
		if e.IsTrackable {
			out = append(out, e)
		}
	}
	return out
}

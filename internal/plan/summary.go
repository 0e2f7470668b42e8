package plan

import (
	"fmt"
	"strings"

	"github.com/meltforce/liftplan/internal/models"
)

// Summarize normalizes a raw day plan into a PlanSummary. It never fails:
// malformed rows degrade to nil target fields or note records, and a nil
// day yields an empty rest-day summary for the given date.
func Summarize(date string, day *models.DayPlan) *models.PlanSummary {
	summary := &models.PlanSummary{
		Date:      date,
		Remarks:   []string{},
		Exercises: []models.PlanExercise{},
		IsRestDay: true,
	}
	if day == nil {
		return summary
	}

	summary.Phase = day.Phase
	if day.Remarks != nil {
		summary.Remarks = day.Remarks
	}

	headers := make([]string, len(day.Headers))
	for i, h := range day.Headers {
		headers[i] = strings.TrimSpace(h)
	}

	for rowIdx, row := range day.Rows {
		values := make([]string, len(row))
		empty := true
		for i, cell := range row {
			values[i] = strings.TrimSpace(cell)
			if values[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}

		name := values[0]
		if name == "" {
			name = fmt.Sprintf("未命名动作%d", rowIdx+1)
		}
		if IsZeroOnlyRow(values[1:]) {
			continue
		}

		ex := normalizeRow(name, headers, values)
		summary.Exercises = append(summary.Exercises, ex)

		if summary.DefaultRestSeconds == nil && ex.IsTrackable && ex.TargetRestSeconds != nil {
			summary.DefaultRestSeconds = ex.TargetRestSeconds
		}
	}

	summary.TrackableExerciseCount = len(summary.Trackable())
	summary.NoteExerciseCount = len(summary.Exercises) - summary.TrackableExerciseCount
	summary.IsRestDay = summary.TrackableExerciseCount == 0
	return summary
}

// normalizeRow builds a single PlanExercise from one sheet row.
func normalizeRow(name string, headers, values []string) models.PlanExercise {
	components := SplitCombination(name)
	if len(components) == 0 {
		components = []string{name}
	}

	ex := models.PlanExercise{
		ExerciseName:     name,
		Category:         Categorize(name),
		Components:       components,
		PrimaryComponent: components[0],
		IsCombination:    len(components) > 1,
		Details:          []string{},
	}

	for i, value := range values {
		if value == "" {
			continue
		}
		header := ""
		if i < len(headers) {
			header = headers[i]
		}
		if i != 0 {
			ex.Details = append(ex.Details, header+": "+value)
		}

		lowered := strings.ToLower(header)
		if ex.TargetSets == nil && (strings.Contains(header, "组") || strings.Contains(lowered, "set")) {
			ex.TargetSets = ExtractNumber(value)
		}
		if ex.TargetReps == nil && (strings.Contains(header, "次") || strings.Contains(lowered, "rep")) {
			ex.TargetReps = ExtractNumber(value)
		}
		if ex.TargetWeight == nil && (strings.Contains(header, "重") || strings.Contains(lowered, "kg")) {
			v := value
			ex.TargetWeight = &v
		}
		if ex.TargetRestSeconds == nil && (strings.Contains(header, "休息") || strings.Contains(header, "间隔") || strings.Contains(lowered, "rest")) {
			ex.TargetRestSeconds = ParseRestSeconds(value)
		}

		if sets, reps := ExtractSetRepPair(value); sets != nil {
			if ex.TargetSets == nil {
				ex.TargetSets = sets
			}
			if ex.TargetReps == nil {
				ex.TargetReps = reps
			}
		}
		if ex.TargetRestSeconds == nil && (strings.Contains(value, "休息") || strings.Contains(strings.ToLower(value), "rest")) {
			ex.TargetRestSeconds = ParseRestSeconds(value)
		}
	}

	if ex.TargetSets != nil && *ex.TargetSets == 0 {
		ex.TargetSets = nil
	}
	if ex.TargetReps != nil && *ex.TargetReps == 0 {
		ex.TargetReps = nil
	}

	// Last resort: any parseable duration in the data cells.
	if ex.TargetRestSeconds == nil {
		for _, value := range values[1:] {
			if r := ParseRestSeconds(value); r != nil {
				ex.TargetRestSeconds = r
				break
			}
		}
	}

	hasPositive := false
	for _, value := range values[1:] {
		if HasPositiveNumber(value) {
			hasPositive = true
			break
		}
	}

	ex.IsTrackable = ex.Category == models.CategoryExercise &&
		((ex.TargetSets != nil && *ex.TargetSets > 0) ||
			(ex.TargetReps != nil && *ex.TargetReps > 0) ||
			hasPositive)

	// An exercise row with no usable target is kept as a note so it still
	// renders, but never enters the set-by-set progression.
	if !ex.IsTrackable {
		if ex.Category == models.CategoryExercise {
			ex.Category = models.CategoryNote
		}
		ex.TargetSets = nil
		ex.TargetReps = nil
		ex.TargetRestSeconds = nil
	}
	return ex
}

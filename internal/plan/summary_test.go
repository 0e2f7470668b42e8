package plan

import (
	"testing"

	"github.com/meltforce/liftplan/internal/models"
)

var dayHeaders = []string{"动作", "组数", "次数", "重量", "休息"}

// TestSummarizeNilDay verifies that a date without a stored plan reads as
// an empty rest day.
func TestSummarizeNilDay(t *testing.T) {
	s := Summarize("2026-03-17", nil)
	if s.Date != "2026-03-17" {
		t.Errorf("date = %q, want 2026-03-17", s.Date)
	}
	if !s.IsRestDay {
		t.Error("nil day should be a rest day")
	}
	if len(s.Exercises) != 0 {
		t.Errorf("exercises = %d, want 0", len(s.Exercises))
	}
}

// TestSummarizeFullDay runs a realistic day block through normalization.
func TestSummarizeFullDay(t *testing.T) {
	day := &models.DayPlan{
		Phase:   "第14阶段",
		Headers: dayHeaders,
		Remarks: []string{"注意呼吸节奏"},
		Rows: [][]string{
			{"热身", "5分钟", "", "", ""},
			{"深蹲", "3", "12", "60kg", "1:30"},
			{"俯卧撑+平板支撑", "3", "15", "", "60"},
			{"硬拉", "0", "0", "0", "0"},
			{"泡沫轴放松动作要慢", "", "", "", ""},
		},
	}

	s := Summarize("2026-03-17", day)

	if s.IsRestDay {
		t.Fatal("day with trackable exercises marked as rest day")
	}
	if s.Phase != "第14阶段" {
		t.Errorf("phase = %q", s.Phase)
	}
	if len(s.Exercises) != 4 {
		t.Fatalf("exercises = %d, want 4 (zero-only row skipped)", len(s.Exercises))
	}
	if s.TrackableExerciseCount != 2 {
		t.Errorf("trackable count = %d, want 2", s.TrackableExerciseCount)
	}
	if s.DefaultRestSeconds == nil || *s.DefaultRestSeconds != 90 {
		t.Errorf("default rest = %v, want 90", s.DefaultRestSeconds)
	}

	squat := s.Exercises[1]
	if !squat.IsTrackable {
		t.Error("深蹲 should be trackable")
	}
	if squat.TargetSets == nil || *squat.TargetSets != 3 {
		t.Errorf("深蹲 target sets = %v, want 3", squat.TargetSets)
	}
	if squat.TargetReps == nil || *squat.TargetReps != 12 {
		t.Errorf("深蹲 target reps = %v, want 12", squat.TargetReps)
	}
	if squat.TargetWeight == nil || *squat.TargetWeight != "60kg" {
		t.Errorf("深蹲 target weight = %v, want 60kg", squat.TargetWeight)
	}
	if squat.TargetRestSeconds == nil || *squat.TargetRestSeconds != 90 {
		t.Errorf("深蹲 rest = %v, want 90", squat.TargetRestSeconds)
	}

	combo := s.Exercises[2]
	if !combo.IsCombination {
		t.Error("俯卧撑+平板支撑 should be a combination")
	}
	if combo.PrimaryComponent != "俯卧撑" {
		t.Errorf("primary component = %q, want 俯卧撑", combo.PrimaryComponent)
	}
	if len(combo.Components) != 2 {
		t.Errorf("components = %v, want 2 entries", combo.Components)
	}
}

// TestSummarizeDemotesUntargetedExercise verifies that an exercise row with
// no positive numbers is kept as a note and drops its targets.
func TestSummarizeDemotesUntargetedExercise(t *testing.T) {
	day := &models.DayPlan{
		Headers: dayHeaders,
		Rows: [][]string{
			{"泡沫轴滚动", "", "", "", ""},
		},
	}

	s := Summarize("2026-03-18", day)
	if len(s.Exercises) != 1 {
		t.Fatalf("exercises = %d, want 1", len(s.Exercises))
	}
	ex := s.Exercises[0]
	if ex.IsTrackable {
		t.Error("untargeted row should not be trackable")
	}
	if ex.Category != models.CategoryNote {
		t.Errorf("category = %q, want note", ex.Category)
	}
	if !s.IsRestDay {
		t.Error("day with only note rows should be a rest day")
	}
}

// TestSummarizeSetRepPairFallback verifies that a "3x12" data cell fills
// both targets when the header columns carry no keyword match.
func TestSummarizeSetRepPairFallback(t *testing.T) {
	day := &models.DayPlan{
		Headers: []string{"动作", "安排", "", "", ""},
		Rows: [][]string{
			{"弓步蹲", "3x12", "", "", ""},
		},
	}

	s := Summarize("2026-03-19", day)
	ex := s.Exercises[0]
	if ex.TargetSets == nil || *ex.TargetSets != 3 {
		t.Errorf("target sets = %v, want 3", ex.TargetSets)
	}
	if ex.TargetReps == nil || *ex.TargetReps != 12 {
		t.Errorf("target reps = %v, want 12", ex.TargetReps)
	}
	if !ex.IsTrackable {
		t.Error("row with set/rep pair should be trackable")
	}
}

// TestSummarizeRestDay verifies a day of rest rows has no trackable work.
func TestSummarizeRestDay(t *testing.T) {
	day := &models.DayPlan{
		Headers: dayHeaders,
		Rows: [][]string{
			{"休息", "", "", "", ""},
			{"放松散步", "", "", "", ""},
		},
	}

	s := Summarize("2026-03-20", day)
	if !s.IsRestDay {
		t.Error("rest rows only, want rest day")
	}
	if s.TrackableExerciseCount != 0 {
		t.Errorf("trackable = %d, want 0", s.TrackableExerciseCount)
	}
}

package plan

import (
	"testing"
)

// TestCategorize verifies name-cell classification against the keyword tables.
func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"杠铃深蹲", "exercise"},
		{"休息日", "rest"},
		{"Rest Day", "rest"},
		{"放松滚轴", "rest"},
		{"训练完成记录", "log"},
		{"记录体重", "log"},
		{"今日总结", "log"},
		{"热身5分钟", "warmup"},
		{"动态拉伸", "warmup"},
		{"臀部激活", "warmup"},
		{"技术性练习", "warmup"},
		{"", "note"},
		{"   ", "note"},
		{"Bench Press", "exercise"},
	}
	for _, tt := range tests {
		if got := Categorize(tt.name); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// TestCategorizeRestBeatsLog ensures the rest table wins when a name
// matches multiple tables.
func TestCategorizeRestBeatsLog(t *testing.T) {
	if got := Categorize("休息总结"); got != "rest" {
		t.Errorf("Categorize(休息总结) = %q, want rest", got)
	}
}

// TestSplitCombination verifies superset names split on + and & including
// full-width variants.
func TestSplitCombination(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"俯卧撑+平板支撑", []string{"俯卧撑", "平板支撑"}},
		{"引体向上 & 悬垂", []string{"引体向上", "悬垂"}},
		{"深蹲＋硬拉", []string{"深蹲", "硬拉"}},
		{"卧推", []string{"卧推"}},
		{"A + B + C", []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		got := SplitCombination(tt.name)
		if len(got) != len(tt.want) {
			t.Errorf("SplitCombination(%q) = %v, want %v", tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitCombination(%q)[%d] = %q, want %q", tt.name, i, got[i], tt.want[i])
			}
		}
	}
}

// TestSplitCombinationEmpty verifies empty input returns nil.
func TestSplitCombinationEmpty(t *testing.T) {
	if got := SplitCombination("  "); got != nil {
		t.Errorf("SplitCombination(blank) = %v, want nil", got)
	}
}

// TestExtractSetRepPair verifies "3组x12次"-style parsing.
func TestExtractSetRepPair(t *testing.T) {
	tests := []struct {
		value string
		sets  int
		reps  int
		ok    bool
	}{
		{"3x12次", 3, 12, true},
		{"4×8", 4, 8, true},
		{"5 * 5", 5, 5, true},
		{"3组12次", 0, 0, false},
		{"12次", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		sets, reps := ExtractSetRepPair(tt.value)
		if tt.ok {
			if sets == nil || reps == nil {
				t.Errorf("ExtractSetRepPair(%q) = (%v, %v), want (%d, %d)", tt.value, sets, reps, tt.sets, tt.reps)
				continue
			}
			if *sets != tt.sets || *reps != tt.reps {
				t.Errorf("ExtractSetRepPair(%q) = (%d, %d), want (%d, %d)", tt.value, *sets, *reps, tt.sets, tt.reps)
			}
		} else if sets != nil || reps != nil {
			t.Errorf("ExtractSetRepPair(%q) = (%v, %v), want nils", tt.value, sets, reps)
		}
	}
}

// TestParseRestSeconds verifies duration parsing across the sheet's formats.
func TestParseRestSeconds(t *testing.T) {
	tests := []struct {
		value string
		want  int
		ok    bool
	}{
		{"1:30", 90, true},
		{"01：30", 90, true},
		{"2分钟", 120, true},
		{"3分", 180, true},
		{"2min", 120, true},
		{"45秒", 45, true},
		{"30s", 30, true},
		{"90", 90, true},
		{"1分30秒", 90, true},
		{"休息", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got := ParseRestSeconds(tt.value)
		if tt.ok {
			if got == nil {
				t.Errorf("ParseRestSeconds(%q) = nil, want %d", tt.value, tt.want)
				continue
			}
			if *got != tt.want {
				t.Errorf("ParseRestSeconds(%q) = %d, want %d", tt.value, *got, tt.want)
			}
		} else if got != nil {
			t.Errorf("ParseRestSeconds(%q) = %d, want nil", tt.value, *got)
		}
	}
}

// TestIsZeroOnlyRow verifies that placeholder rows (all numbers zero) are
// detected and rows without numbers are not.
func TestIsZeroOnlyRow(t *testing.T) {
	tests := []struct {
		values []string
		want   bool
	}{
		{[]string{"0", "0", "0"}, true},
		{[]string{"0", "", "0.0"}, true},
		{[]string{"0", "12", "0"}, false},
		{[]string{"", "", ""}, false},
		{[]string{"备注", ""}, false},
	}
	for _, tt := range tests {
		if got := IsZeroOnlyRow(tt.values); got != tt.want {
			t.Errorf("IsZeroOnlyRow(%v) = %v, want %v", tt.values, got, tt.want)
		}
	}
}

// TestHasPositiveNumber covers the trackability fallback signal.
func TestHasPositiveNumber(t *testing.T) {
	if !HasPositiveNumber("60kg") {
		t.Error("HasPositiveNumber(60kg) = false, want true")
	}
	if HasPositiveNumber("0") {
		t.Error("HasPositiveNumber(0) = true, want false")
	}
	if HasPositiveNumber("自重") {
		t.Error("HasPositiveNumber(自重) = true, want false")
	}
}

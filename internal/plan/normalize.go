// Package plan turns raw day-plan rows into normalized PlanSummary
// records. All heuristics are pure functions over row text so thresholds
// and keyword tables can be tested in isolation.
package plan

import (
	"regexp"
	"strconv"
	"strings"
)

// Keyword tables driving row classification. A row's category is decided
// by its name cell alone; first matching table wins.
var (
	restKeywords   = []string{"休息", "rest", "放松"}
	logKeywords    = []string{"完成", "记录", "总结"}
	warmupKeywords = []string{"热身", "拉伸", "激活", "准备", "梳理", "升温", "技术性"}
)

var (
	numberRe           = regexp.MustCompile(`\d+`)
	setRepPairRe       = regexp.MustCompile(`(\d+)\s*[x×*]\s*(\d+)`)
	floatRe            = regexp.MustCompile(`\d+(?:\.\d+)?`)
	colonRestRe        = regexp.MustCompile(`(\d+)\s*:\s*(\d+)`)
	bareMinuteRe       = regexp.MustCompile(`(\d+)\s*:\s*$`)
	minuteUnitRe       = regexp.MustCompile(`(\d+)(分钟|分|min)`)
	secondUnitRe       = regexp.MustCompile(`(\d+)(秒|s|sec)`)
	trailingNonDigitRe = regexp.MustCompile(`\D*$`)
	combinationSplitRe = regexp.MustCompile(`\s*[+&]\s*`)
)

// Categorize classifies a plan row by its name cell. A blank name is a
// note; otherwise the keyword tables decide, defaulting to exercise.
func Categorize(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return "note"
	}
	for _, kw := range restKeywords {
		if strings.Contains(lowered, kw) {
			return "rest"
		}
	}
	for _, kw := range logKeywords {
		if strings.Contains(lowered, kw) {
			return "log"
		}
	}
	for _, kw := range warmupKeywords {
		if strings.Contains(lowered, kw) {
			return "warmup"
		}
	}
	return "exercise"
}

// SplitCombination splits a superset name like "俯卧撑+平板支撑" into its
// component movements. Names without a join delimiter come back as a
// single-element slice.
func SplitCombination(name string) []string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}

	normalized := strings.NewReplacer("＋", "+", "＆", "&").Replace(trimmed)
	if !strings.ContainsAny(normalized, "+&") {
		return []string{trimmed}
	}

	var parts []string
	for _, segment := range combinationSplitRe.Split(normalized, -1) {
		if cleaned := strings.TrimSpace(segment); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	if len(parts) == 0 {
		return []string{trimmed}
	}
	return parts
}

// ExtractNumber returns the first integer in a cell, or nil.
func ExtractNumber(value string) *int {
	m := numberRe.FindString(value)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

// ExtractSetRepPair parses "3组x12次"-style cells, returning (sets, reps).
// The pattern is deliberately tolerant: the first two integers joined by
// x/×/* are taken, anything else degrades to nil.
func ExtractSetRepPair(value string) (*int, *int) {
	m := setRepPairRe.FindStringSubmatch(value)
	if m == nil {
		return nil, nil
	}
	sets, err1 := strconv.Atoi(m[1])
	reps, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &sets, &reps
}

// ParseRestSeconds converts free-text rest durations to seconds. Accepts
// mm:ss (with full-width or apostrophe separators), "N分钟"/"N分"/"Nmin",
// "N秒"/"Ns"/"Nsec", and bare second counts. Returns nil when nothing
// parses.
func ParseRestSeconds(value string) *int {
	text := strings.TrimSpace(value)
	if text == "" {
		return nil
	}

	normalized := strings.ToLower(text)
	normalized = strings.NewReplacer("：", ":", "'", ":", "′", ":", `"`, "", "″", "").Replace(normalized)

	if m := colonRestRe.FindStringSubmatch(normalized); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		total := minutes*60 + seconds
		return &total
	}
	if m := bareMinuteRe.FindStringSubmatch(normalized); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		total := minutes * 60
		return &total
	}

	total := 0
	if m := minuteUnitRe.FindStringSubmatch(normalized); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		total += minutes * 60
	}
	if m := secondUnitRe.FindStringSubmatch(normalized); m != nil {
		seconds, _ := strconv.Atoi(m[1])
		total += seconds
	}
	if total > 0 {
		return &total
	}

	compact := trailingNonDigitRe.ReplaceAllString(normalized, "")
	if compact != "" && numberRe.FindString(compact) == compact {
		if n, err := strconv.Atoi(compact); err == nil {
			return &n
		}
	}
	return nil
}

// HasPositiveNumber reports whether the cell contains any integer > 0.
func HasPositiveNumber(value string) bool {
	for _, m := range numberRe.FindAllString(value, -1) {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			return true
		}
	}
	return false
}

// IsZeroOnlyRow reports whether the cells contain numbers and all of them
// are zero. Such rows are placeholders in the sheet and are skipped.
func IsZeroOnlyRow(values []string) bool {
	found := false
	for _, value := range values {
		for _, m := range floatRe.FindAllString(value, -1) {
			n, err := strconv.ParseFloat(m, 64)
			if err != nil {
				continue
			}
			found = true
			if n != 0 {
				return false
			}
		}
	}
	return found
}

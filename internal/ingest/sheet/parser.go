// Package sheet extracts per-date workout plans from the uploaded Excel
// workbook. The workbook layout follows the hand-maintained sheet: one
// sheet per training phase, day blocks located by a "M.D 完成" date cell
// with a weekday header row above and five plan columns.
package sheet

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/meltforce/liftplan/internal/models"
	"github.com/meltforce/liftplan/internal/workflow"
)

const (
	// phaseMarker selects the sheets that hold training plans.
	phaseMarker = "阶段"
	// minPhase skips legacy sheets kept in the workbook for history.
	minPhase = 14
	// planWidth is the number of columns in a day block.
	planWidth = 5
	// dateMarker tags a date cell, e.g. "3.17 完成".
	dateMarker = "完成"
)

var weekdayNames = []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// Parser turns a workbook into raw day plans.
type Parser struct {
	log *slog.Logger
	// now supplies the year date cells are anchored to.
	now func() time.Time
}

// NewParser creates a Parser.
func NewParser(log *slog.Logger) *Parser {
	return &Parser{log: log, now: time.Now}
}

// Parse reads an xlsx workbook and returns every day plan it contains.
// Malformed sheets and blocks are logged and skipped; only an unreadable
// workbook fails, with ErrMalformedInput.
func (p *Parser) Parse(r io.Reader) ([]models.DayPlan, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %v", workflow.ErrMalformedInput, err)
	}
	defer f.Close()

	var days []models.DayPlan
	markerSheets := 0

	for _, sheetName := range f.GetSheetList() {
		if !strings.Contains(sheetName, phaseMarker) {
			continue
		}
		markerSheets++

		phase, ok := phaseNumber(sheetName)
		if !ok {
			p.log.Warn("sheet has no phase number, skipping", "sheet", sheetName)
			continue
		}
		if phase < minPhase {
			continue
		}

		grid, err := f.GetRows(sheetName)
		if err != nil {
			p.log.Warn("unreadable sheet, skipping", "sheet", sheetName, "error", err)
			continue
		}

		found := p.parseSheet(sheetName, grid, &days)
		p.log.Info("parsed sheet", "sheet", sheetName, "phase", phase, "days", found)
	}

	if markerSheets == 0 {
		return nil, fmt.Errorf("%w: no sheet named with %q", workflow.ErrMalformedInput, phaseMarker)
	}
	return days, nil
}

// parseSheet scans one sheet's grid for day blocks and appends them to
// days. Returns the number of blocks found.
func (p *Parser) parseSheet(sheetName string, grid [][]string, days *[]models.DayPlan) int {
	found := 0
	for rowIdx, row := range grid {
		for colIdx, cell := range row {
			date, ok := p.parseDateCell(cell)
			if !ok {
				continue
			}

			headerRow := findHeaderRow(grid, rowIdx)
			if headerRow < 0 {
				p.log.Warn("no weekday header above date cell, skipping",
					"sheet", sheetName, "row", rowIdx, "date", date)
				continue
			}

			day := extractDayPlan(grid, headerRow, rowIdx, colIdx)
			day.Date = date
			if day.Phase == "" {
				day.Phase = sheetName
			}
			if len(day.Rows) == 0 {
				continue
			}
			*days = append(*days, day)
			found++
		}
	}
	return found
}

// parseDateCell recognizes "M.D 完成" cells and resolves them against the
// current year.
func (p *Parser) parseDateCell(cell string) (string, bool) {
	if !strings.Contains(cell, ".") || !strings.Contains(cell, dateMarker) {
		return "", false
	}
	datePart, _, _ := strings.Cut(cell, " ")
	month, dayStr, ok := strings.Cut(datePart, ".")
	if !ok || !allDigits(month) || !allDigits(dayStr) {
		return "", false
	}
	var m, d int
	fmt.Sscanf(datePart, "%d.%d", &m, &d)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", p.now().Year(), m, d), true
}

// findHeaderRow walks upward from the date row looking for a row that
// contains a weekday name; the plan header sits one row below it.
func findHeaderRow(grid [][]string, dateRow int) int {
	for i := dateRow - 1; i >= 0; i-- {
		for _, cell := range grid[i] {
			for _, day := range weekdayNames {
				if strings.TrimSpace(cell) == day {
					return i + 1
				}
			}
		}
	}
	return -1
}

// extractDayPlan pulls the header, remarks, and plan rows of one block.
// The block spans planWidth columns starting at col; plan rows run from
// two rows below the header up to the date row.
func extractDayPlan(grid [][]string, headerRow, dateRow, col int) models.DayPlan {
	day := models.DayPlan{
		Headers: sliceRow(grid, headerRow, col, planWidth),
		Remarks: compactRow(sliceRow(grid, headerRow+1, col, planWidth+1)),
	}
	if headerRow > 0 && len(grid[headerRow-1]) > 0 {
		day.Phase = strings.TrimSpace(grid[headerRow-1][0])
	}

	for r := headerRow + 2; r < dateRow; r++ {
		row := sliceRow(grid, r, col, planWidth)
		if isBlankRow(row) {
			continue
		}
		day.Rows = append(day.Rows, row)
	}
	return day
}

// sliceRow returns width cells of a grid row starting at col, padding
// missing cells with empty strings. excelize trims trailing empties.
func sliceRow(grid [][]string, row, col, width int) []string {
	out := make([]string, width)
	if row < 0 || row >= len(grid) {
		return out
	}
	for i := 0; i < width; i++ {
		if col+i < len(grid[row]) {
			out[i] = strings.TrimSpace(grid[row][col+i])
		}
	}
	return out
}

// compactRow drops empty cells, keeping order.
func compactRow(cells []string) []string {
	out := []string{}
	for _, c := range cells {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// isBlankRow reports whether every cell is empty or a "0" placeholder.
func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" && c != "0" {
			return false
		}
	}
	return true
}

func phaseNumber(sheetName string) (int, bool) {
	n := 0
	found := false
	for _, r := range sheetName {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			found = true
		}
	}
	return n, found
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

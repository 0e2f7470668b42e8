package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/meltforce/liftplan/internal/models"
)

// ReplaceDayPlans clears the stored plan set and inserts the given days in
// one transaction. Each upload carries the whole workbook, so a full
// replace keeps the table in sync with the sheet. Returns count inserted.
func (db *DB) ReplaceDayPlans(ctx context.Context, days []models.DayPlan) (int, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning plan replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM workout_plans`); err != nil {
		return 0, fmt.Errorf("clearing workout plans: %w", err)
	}

	if len(days) == 0 {
		return 0, tx.Commit(ctx)
	}

	query := `INSERT INTO workout_plans (date, phase, headers, remarks, plan_rows, uploaded_at) VALUES `
	args := make([]any, 0, len(days)*6)
	valueStrings := make([]string, 0, len(days))
	now := time.Now().UTC()

	for i, d := range days {
		headers, err := json.Marshal(d.Headers)
		if err != nil {
			return 0, fmt.Errorf("encoding headers for %s: %w", d.Date, err)
		}
		remarks, err := json.Marshal(d.Remarks)
		if err != nil {
			return 0, fmt.Errorf("encoding remarks for %s: %w", d.Date, err)
		}
		rows, err := json.Marshal(d.Rows)
		if err != nil {
			return 0, fmt.Errorf("encoding rows for %s: %w", d.Date, err)
		}

		base := i * 6
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
		))
		args = append(args, d.Date, d.Phase, headers, remarks, rows, now)
	}

	// Later blocks for the same date win (sheets are read in order).
	query += strings.Join(valueStrings, ",") +
		" ON CONFLICT (date) DO UPDATE SET phase = EXCLUDED.phase, headers = EXCLUDED.headers," +
		" remarks = EXCLUDED.remarks, plan_rows = EXCLUDED.plan_rows, uploaded_at = EXCLUDED.uploaded_at"

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("inserting workout plans: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing plan replace: %w", err)
	}
	return len(days), nil
}

// GetDayPlan returns the raw plan for a date, or nil when none is stored.
func (db *DB) GetDayPlan(ctx context.Context, date string) (*models.DayPlan, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT date, phase, headers, remarks, plan_rows, uploaded_at
		 FROM workout_plans WHERE date = $1`, date)

	day, err := scanDayPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying day plan %s: %w", date, err)
	}
	return day, nil
}

// ListDayPlans returns the stored plans for the given dates, keyed by date.
// Dates with no plan are simply absent from the map.
func (db *DB) ListDayPlans(ctx context.Context, dates []string) (map[string]*models.DayPlan, error) {
	if len(dates) == 0 {
		return map[string]*models.DayPlan{}, nil
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT date, phase, headers, remarks, plan_rows, uploaded_at
		 FROM workout_plans WHERE date = ANY($1)`, dates)
	if err != nil {
		return nil, fmt.Errorf("querying day plans: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*models.DayPlan, len(dates))
	for rows.Next() {
		day, err := scanDayPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning day plan: %w", err)
		}
		result[day.Date] = day
	}
	return result, rows.Err()
}

func scanDayPlan(row pgx.Row) (*models.DayPlan, error) {
	var d models.DayPlan
	var headers, remarks, planRows []byte
	if err := row.Scan(&d.Date, &d.Phase, &headers, &remarks, &planRows, &d.UploadedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(headers, &d.Headers); err != nil {
		return nil, fmt.Errorf("decoding headers: %w", err)
	}
	if err := json.Unmarshal(remarks, &d.Remarks); err != nil {
		return nil, fmt.Errorf("decoding remarks: %w", err)
	}
	if err := json.Unmarshal(planRows, &d.Rows); err != nil {
		return nil, fmt.Errorf("decoding rows: %w", err)
	}
	return &d, nil
}

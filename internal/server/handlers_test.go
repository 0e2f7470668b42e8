package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meltforce/liftplan/internal/models"
	"github.com/meltforce/liftplan/internal/workflow"
)

func newTestServer() *Server {
	return New(&fakeStorage{}, nil, nil, "secret", slog.Default())
}

// fakeStorage serves canned plans to the read handlers.
type fakeStorage struct {
	plans map[string]*models.DayPlan
}

func (f *fakeStorage) GetDayPlan(_ context.Context, date string) (*models.DayPlan, error) {
	return f.plans[date], nil
}

func (f *fakeStorage) ListDayPlans(_ context.Context, dates []string) (map[string]*models.DayPlan, error) {
	out := make(map[string]*models.DayPlan)
	for _, d := range dates {
		if p, ok := f.plans[d]; ok {
			out[d] = p
		}
	}
	return out, nil
}

func (f *fakeStorage) GetActiveSession(context.Context, string) (*models.TrainingSession, error) {
	return nil, nil
}

func (f *fakeStorage) ListRecentSets(context.Context, int) ([]models.HistoryEntry, error) {
	return nil, nil
}

func storedDay(date string) *models.DayPlan {
	return &models.DayPlan{
		Date:    date,
		Phase:   "第14阶段",
		Headers: []string{"动作", "组数", "次数", "重量", "休息"},
		Rows:    [][]string{{"深蹲", "3", "12", "60kg", "1:30"}},
	}
}

// TestGetPlanInvalidDate verifies date validation happens before any
// storage access.
func TestGetPlanInvalidDate(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans/not-a-date", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body["kind"] != "malformed_input" {
		t.Errorf("kind = %q, want malformed_input", body["kind"])
	}
}

// TestTodayPlanExplicitDate verifies the date query parameter selects the
// plan served instead of today's.
func TestTodayPlanExplicitDate(t *testing.T) {
	store := &fakeStorage{plans: map[string]*models.DayPlan{
		"2026-03-17": storedDay("2026-03-17"),
	}}
	s := New(store, nil, nil, "secret", slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/today-plan?date=2026-03-17", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var summary models.PlanSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if summary.Date != "2026-03-17" {
		t.Errorf("date = %q, want 2026-03-17", summary.Date)
	}
	if summary.IsRestDay {
		t.Error("is_rest_day = true for a stored training day")
	}
}

// TestTodayPlanInvalidDate verifies a malformed date query is a 400.
func TestTodayPlanInvalidDate(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/today-plan?date=17.03.2026", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestWeekPlanOffset verifies the signed week offset shifts the window and
// each day carries a has_plan signal.
func TestWeekPlanOffset(t *testing.T) {
	// 2026-03-17 is a Tuesday; week=1 selects Monday 2026-03-23 through
	// Sunday 2026-03-29.
	store := &fakeStorage{plans: map[string]*models.DayPlan{
		"2026-03-25": storedDay("2026-03-25"),
	}}
	s := New(store, nil, nil, "secret", slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/week?date=2026-03-17&week=1", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Start        string    `json:"start"`
		End          string    `json:"end"`
		WeekOffset   int       `json:"week_offset"`
		TrainingDays int       `json:"training_days"`
		Days         []weekDay `json:"days"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.Start != "2026-03-23" || body.End != "2026-03-29" {
		t.Errorf("window = %s..%s, want 2026-03-23..2026-03-29", body.Start, body.End)
	}
	if body.WeekOffset != 1 {
		t.Errorf("week_offset = %d, want 1", body.WeekOffset)
	}
	if body.TrainingDays != 1 {
		t.Errorf("training_days = %d, want 1", body.TrainingDays)
	}
	if len(body.Days) != 7 {
		t.Fatalf("days = %d, want 7", len(body.Days))
	}
	if !body.Days[2].HasPlan {
		t.Error("has_plan = false for the stored Wednesday")
	}
	if body.Days[0].HasPlan {
		t.Error("has_plan = true for an empty Monday")
	}
}

// TestWeekPlanBadOffset verifies a non-integer week offset is a 400.
func TestWeekPlanBadOffset(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/week?week=next", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestStartTrainingBadJSON verifies a malformed body is a 400.
func TestStartTrainingBadJSON(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/start-training", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestStartTrainingBadDate verifies a malformed date in the body is a 400.
func TestStartTrainingBadDate(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/start-training",
		strings.NewReader(`{"date":"17.03.2026"}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestNextSetInvalidSessionID verifies session_id parsing.
func TestNextSetInvalidSessionID(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/next-set",
		strings.NewReader(`{"session_id":"not-a-uuid"}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestUploadPlanRequiresKey verifies the upload route sits behind API key auth.
func TestUploadPlanRequiresKey(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload-plan/", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestUploadPlanRejectsNonXLSX verifies the extension check runs before
// any parsing.
func TestUploadPlanRejectsNonXLSX(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "plan.csv")
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(part, "a,b,c")
	mw.Close()

	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload-plan/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestUploadPlanMissingFile verifies the file field is required.
func TestUploadPlanMissingFile(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("note", "no file here")
	mw.Close()

	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload-plan/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestWriteErrorMapping checks the workflow error taxonomy maps onto the
// documented HTTP statuses.
func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{fmt.Errorf("wrap: %w", workflow.ErrMalformedInput), http.StatusBadRequest, "malformed_input"},
		{fmt.Errorf("wrap: %w", workflow.ErrNotFound), http.StatusNotFound, "not_found"},
		{fmt.Errorf("wrap: %w", workflow.ErrInvalidState), http.StatusConflict, "invalid_state"},
		{fmt.Errorf("wrap: %w", workflow.ErrPlanExhausted), http.StatusConflict, "plan_exhausted"},
		{fmt.Errorf("wrap: %w", workflow.ErrConflict), http.StatusConflict, "conflict"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}

	s := newTestServer()
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		s.writeError(rec, tt.err)

		if rec.Code != tt.status {
			t.Errorf("writeError(%v) status = %d, want %d", tt.err, rec.Code, tt.status)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if body["kind"] != tt.kind {
			t.Errorf("writeError(%v) kind = %q, want %q", tt.err, body["kind"], tt.kind)
		}
	}
}

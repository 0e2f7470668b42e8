package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/liftplan/internal/models"
	"github.com/meltforce/liftplan/internal/plan"
	"github.com/meltforce/liftplan/internal/workflow"
)

const (
	dateLayout    = "2006-01-02"
	maxUploadSize = 10 << 20 // 10 MiB
)

var weekdayLabels = []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(dateLayout, date); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, want YYYY-MM-DD", "kind": "malformed_input"})
		return
	}
	s.writePlanSummary(w, r, date)
}

func (s *Server) handleTodayPlan(w http.ResponseWriter, r *http.Request) {
	date, ok := s.resolveDate(w, r.URL.Query().Get("date"))
	if !ok {
		return
	}
	s.writePlanSummary(w, r, date)
}

// writePlanSummary responds with the normalized plan for a date. A date
// with no stored plan reads as a rest day rather than a 404.
func (s *Server) writePlanSummary(w http.ResponseWriter, r *http.Request, date string) {
	day, err := s.db.GetDayPlan(r.Context(), date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan.Summarize(date, day))
}

type weekDay struct {
	Date    string              `json:"date"`
	Weekday string              `json:"weekday"`
	HasPlan bool                `json:"has_plan"`
	Plan    *models.PlanSummary `json:"plan"`
}

func (s *Server) handleWeekPlan(w http.ResponseWriter, r *http.Request) {
	anchor := time.Now()
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := time.Parse(dateLayout, q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, want YYYY-MM-DD", "kind": "malformed_input"})
			return
		}
		anchor = parsed
	}

	// Signed offset in weeks from the anchor's week (-1 = last week).
	weekOffset := 0
	if q := r.URL.Query().Get("week"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week must be an integer offset", "kind": "malformed_input"})
			return
		}
		weekOffset = n
	}
	anchor = anchor.AddDate(0, 0, 7*weekOffset)

	// Week runs Monday through Sunday.
	offset := (int(anchor.Weekday()) + 6) % 7
	monday := anchor.AddDate(0, 0, -offset)

	dates := make([]string, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(dateLayout)
	}

	plans, err := s.db.ListDayPlans(r.Context(), dates)
	if err != nil {
		s.writeError(w, err)
		return
	}

	trainingDays := 0
	week := make([]weekDay, 7)
	for i, date := range dates {
		summary := plan.Summarize(date, plans[date])
		if !summary.IsRestDay {
			trainingDays++
		}
		week[i] = weekDay{
			Date:    date,
			Weekday: weekdayLabels[i],
			HasPlan: plans[date] != nil,
			Plan:    summary,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"start":         dates[0],
		"end":           dates[6],
		"week_offset":   weekOffset,
		"training_days": trainingDays,
		"days":          week,
	})
}

type startRequest struct {
	Date                string `json:"date"`
	RestIntervalSeconds *int   `json:"rest_interval_seconds"`
}

func (s *Server) handleStartTraining(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error(), "kind": "malformed_input"})
		return
	}
	date, ok := s.resolveDate(w, req.Date)
	if !ok {
		return
	}

	state, err := s.engine.Start(r.Context(), date, req.RestIntervalSeconds)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type logSetRequest struct {
	SessionID           string   `json:"session_id"`
	Date                string   `json:"date"`
	ActualReps          *int     `json:"actual_reps"`
	ActualWeight        *string  `json:"actual_weight"`
	RPE                 *float64 `json:"rpe"`
	Notes               *string  `json:"notes"`
	RestIntervalSeconds *int     `json:"rest_interval_seconds"`
}

func (s *Server) handleNextSet(w http.ResponseWriter, r *http.Request) {
	var req logSetRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error(), "kind": "malformed_input"})
		return
	}

	sessionID, ok := s.resolveSession(w, r, req.SessionID, req.Date)
	if !ok {
		return
	}

	state, err := s.engine.LogNextSet(r.Context(), workflow.LogSetRequest{
		SessionID:           sessionID,
		ActualReps:          req.ActualReps,
		ActualWeight:        req.ActualWeight,
		RPE:                 req.RPE,
		Notes:               req.Notes,
		RestIntervalSeconds: req.RestIntervalSeconds,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	date, ok := s.resolveDate(w, r.URL.Query().Get("date"))
	if !ok {
		return
	}
	state, err := s.engine.Current(r.Context(), date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type finishRequest struct {
	SessionID string  `json:"session_id"`
	Date      string  `json:"date"`
	Notes     *string `json:"notes"`
}

func (s *Server) handleFinishTraining(w http.ResponseWriter, r *http.Request) {
	var req finishRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error(), "kind": "malformed_input"})
		return
	}

	sessionID, ok := s.resolveSession(w, r, req.SessionID, req.Date)
	if !ok {
		return
	}

	state, err := s.engine.Finish(r.Context(), sessionID, req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleTrainingHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer", "kind": "malformed_input"})
			return
		}
		if n > 500 {
			n = 500
		}
		limit = n
	}

	entries, err := s.db.ListRecentSets(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleUploadPlan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form: " + err.Error(), "kind": "malformed_input"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file field required", "kind": "malformed_input"})
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "only .xlsx workbooks are accepted", "kind": "malformed_input"})
		return
	}

	result, err := s.ingest.Ingest(r.Context(), file)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("plan uploaded", "filename", header.Filename, "days", result.Days)
	writeJSON(w, http.StatusOK, result)
}

// resolveDate validates a caller-supplied date, defaulting to today.
func (s *Server) resolveDate(w http.ResponseWriter, date string) (string, bool) {
	if date == "" {
		return time.Now().Format(dateLayout), true
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, want YYYY-MM-DD", "kind": "malformed_input"})
		return "", false
	}
	return date, true
}

// resolveSession maps a request to a session ID: an explicit session_id
// wins, otherwise the active session for the date (default today).
func (s *Server) resolveSession(w http.ResponseWriter, r *http.Request, sessionID, date string) (uuid.UUID, bool) {
	if sessionID != "" {
		id, err := uuid.Parse(sessionID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session_id", "kind": "malformed_input"})
			return uuid.Nil, false
		}
		return id, true
	}

	resolved, ok := s.resolveDate(w, date)
	if !ok {
		return uuid.Nil, false
	}
	session, err := s.db.GetActiveSession(r.Context(), resolved)
	if err != nil {
		s.writeError(w, err)
		return uuid.Nil, false
	}
	if session == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session for " + resolved, "kind": "not_found"})
		return uuid.Nil, false
	}
	return session.ID, true
}

// writeError maps workflow errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.Is(err, workflow.ErrMalformedInput):
		status, kind = http.StatusBadRequest, "malformed_input"
	case errors.Is(err, workflow.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, workflow.ErrInvalidState):
		status, kind = http.StatusConflict, "invalid_state"
	case errors.Is(err, workflow.ErrPlanExhausted):
		status, kind = http.StatusConflict, "plan_exhausted"
	case errors.Is(err, workflow.ErrConflict):
		status, kind = http.StatusConflict, "conflict"
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": kind})
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

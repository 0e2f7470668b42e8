package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/liftplan/internal/plan"
	"github.com/meltforce/liftplan/internal/workflow"
)

const dateLayout = "2006-01-02"

// resolveDate validates an optional YYYY-MM-DD argument, defaulting to today.
func resolveDate(s string) (string, error) {
	if s == "" {
		return time.Now().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return s, nil
}

// resolveSession returns the active session ID for a date.
func (h *handlers) resolveSession(ctx context.Context, date string) (uuid.UUID, error) {
	session, err := h.db.GetActiveSession(ctx, date)
	if err != nil {
		return uuid.Nil, err
	}
	if session == nil {
		return uuid.Nil, fmt.Errorf("no active session for %s", date)
	}
	return session.ID, nil
}

// --- Tool definitions ---

var toolGetTodayPlan = mcp.NewTool("get_today_plan",
	mcp.WithDescription("Get the workout plan for a date (default today). Returns per-exercise targets (sets, reps, weight, rest) and whether the day is a rest day."),
	mcp.WithString("date", mcp.Description("Plan date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetWeekPlan = mcp.NewTool("get_week_plan",
	mcp.WithDescription("Get the Monday-to-Sunday week of plans containing a date (default today). Days without a stored plan read as rest days."),
	mcp.WithString("date", mcp.Description("Any date inside the week (YYYY-MM-DD). Defaults to today.")),
)

var toolStartTraining = mcp.NewTool("start_training",
	mcp.WithDescription("Start (or resume) the training session for a date. Rejects rest days. Returns the session state including the first exercise and set to perform."),
	mcp.WithString("date", mcp.Description("Plan date (YYYY-MM-DD). Defaults to today.")),
	mcp.WithNumber("rest_interval_seconds", mcp.Description("Default rest interval between sets, in seconds. Overrides the plan's rest target.")),
)

var toolLogNextSet = mcp.NewTool("log_next_set",
	mcp.WithDescription("Log the next set of the current exercise for the active session and return the updated state, including the next step and the rest window."),
	mcp.WithString("date", mcp.Description("Plan date of the active session (YYYY-MM-DD). Defaults to today.")),
	mcp.WithNumber("actual_reps", mcp.Description("Repetitions actually performed")),
	mcp.WithString("actual_weight", mcp.Description("Weight actually used, free text (e.g. '60kg', 'bodyweight')")),
	mcp.WithNumber("rpe", mcp.Description("Rating of perceived exertion, 1-10")),
	mcp.WithString("notes", mcp.Description("Free-form note for this set")),
	mcp.WithNumber("rest_interval_seconds", mcp.Description("Rest interval after this set, in seconds")),
)

var toolGetCurrentSession = mcp.NewTool("get_current_session",
	mcp.WithDescription("Get the current session state for a date without changing anything: status (no_session, active, rest, completed), current exercise and set, and rest countdown."),
	mcp.WithString("date", mcp.Description("Plan date (YYYY-MM-DD). Defaults to today.")),
)

var toolFinishTraining = mcp.NewTool("finish_training",
	mcp.WithDescription("Complete the active training session for a date. Fails if no session is active."),
	mcp.WithString("date", mcp.Description("Plan date (YYYY-MM-DD). Defaults to today.")),
	mcp.WithString("notes", mcp.Description("Session-level note, e.g. an overall summary")),
)

var toolGetTrainingHistory = mcp.NewTool("get_training_history",
	mcp.WithDescription("List recently logged training sets across all sessions, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sets to return. Defaults to 50, capped at 500.")),
)

// --- Tool handlers ---

func (h *handlers) getTodayPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := resolveDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	day, err := h.db.GetDayPlan(ctx, date)
	if err != nil {
		h.log.Error("mcp get_today_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(plan.Summarize(date, day))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeekPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := resolveDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	anchor, _ := time.Parse(dateLayout, date)

	offset := (int(anchor.Weekday()) + 6) % 7
	monday := anchor.AddDate(0, 0, -offset)

	dates := make([]string, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(dateLayout)
	}

	plans, err := h.db.ListDayPlans(ctx, dates)
	if err != nil {
		h.log.Error("mcp get_week_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	week := make([]map[string]any, 7)
	for i, d := range dates {
		week[i] = map[string]any{
			"date":     d,
			"has_plan": plans[d] != nil,
			"plan":     plan.Summarize(d, plans[d]),
		}
	}

	result, err := mcp.NewToolResultJSON(week)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) startTraining(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := resolveDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var rest *int
	if v := req.GetInt("rest_interval_seconds", 0); v > 0 {
		rest = &v
	}

	state, err := h.engine.Start(ctx, date, rest)
	if err != nil {
		return toolError(h, "start_training", err), nil
	}

	result, err := mcp.NewToolResultJSON(state)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logNextSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := resolveDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sessionID, err := h.resolveSession(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logReq := workflow.LogSetRequest{SessionID: sessionID}
	if v := req.GetInt("actual_reps", 0); v > 0 {
		logReq.ActualReps = &v
	}
	if v := req.GetString("actual_weight", ""); v != "" {
		logReq.ActualWeight = &v
	}
	if v := req.GetFloat("rpe", 0); v > 0 {
		logReq.RPE = &v
	}
	if v := req.GetString("notes", ""); v != "" {
		logReq.Notes = &v
	}
	if v := req.GetInt("rest_interval_seconds", 0); v > 0 {
		logReq.RestIntervalSeconds = &v
	}

	state, err := h.engine.LogNextSet(ctx, logReq)
	if err != nil {
		return toolError(h, "log_next_set", err), nil
	}

	result, err := mcp.NewToolResultJSON(state)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCurrentSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := resolveDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := h.engine.Current(ctx, date)
	if err != nil {
		return toolError(h, "get_current_session", err), nil
	}

	result, err := mcp.NewToolResultJSON(state)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) finishTraining(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := resolveDate(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sessionID, err := h.resolveSession(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var notes *string
	if v := req.GetString("notes", ""); v != "" {
		notes = &v
	}

	state, err := h.engine.Finish(ctx, sessionID, notes)
	if err != nil {
		return toolError(h, "finish_training", err), nil
	}

	result, err := mcp.NewToolResultJSON(state)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 50)
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	entries, err := h.db.ListRecentSets(ctx, limit)
	if err != nil {
		h.log.Error("mcp get_training_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// toolError maps workflow errors to tool results; unexpected errors are
// logged.
func toolError(h *handlers, tool string, err error) *mcp.CallToolResult {
	if !errors.Is(err, workflow.ErrNotFound) &&
		!errors.Is(err, workflow.ErrInvalidState) &&
		!errors.Is(err, workflow.ErrConflict) &&
		!errors.Is(err, workflow.ErrPlanExhausted) &&
		!errors.Is(err, workflow.ErrMalformedInput) {
		h.log.Error("mcp "+tool, "error", err)
	}
	return mcp.NewToolResultError(err.Error())
}

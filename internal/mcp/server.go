// Package mcp exposes the training workflow to LLM clients over the
// Model Context Protocol.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/liftplan/internal/storage"
	"github.com/meltforce/liftplan/internal/workflow"
)

// New creates an MCP server with all tools and resources registered.
func New(db *storage.DB, engine *workflow.Engine, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("liftplan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Workout plan tracker. Read daily and weekly training plans, run a training session set by set, and review training history. Dates are YYYY-MM-DD and default to today."),
	)

	h := &handlers{db: db, engine: engine, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetTodayPlan, Handler: h.getTodayPlan},
		server.ServerTool{Tool: toolGetWeekPlan, Handler: h.getWeekPlan},
		server.ServerTool{Tool: toolStartTraining, Handler: h.startTraining},
		server.ServerTool{Tool: toolLogNextSet, Handler: h.logNextSet},
		server.ServerTool{Tool: toolGetCurrentSession, Handler: h.getCurrentSession},
		server.ServerTool{Tool: toolFinishTraining, Handler: h.finishTraining},
		server.ServerTool{Tool: toolGetTrainingHistory, Handler: h.getTrainingHistory},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resTodayPlan, Handler: h.todayPlan},
		server.ServerResource{Resource: resRecentHistory, Handler: h.recentHistory},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	db     *storage.DB
	engine *workflow.Engine
	log    *slog.Logger
}

// --- Resource definitions ---

var resTodayPlan = mcp.NewResource(
	"liftplan://today_plan",
	"Today's Plan",
	mcp.WithResourceDescription("The normalized workout plan for today, including per-exercise targets and the default rest interval"),
	mcp.WithMIMEType("application/json"),
)

var resRecentHistory = mcp.NewResource(
	"liftplan://recent_history",
	"Recent Training History",
	mcp.WithResourceDescription("The most recently logged training sets across all sessions"),
	mcp.WithMIMEType("application/json"),
)

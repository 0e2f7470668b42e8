package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/liftplan/internal/ingest/sheet"
	"github.com/meltforce/liftplan/internal/models"
	"github.com/meltforce/liftplan/internal/workflow"
)

// Storage is the subset of the database the HTTP handlers read directly.
// Writes go through the workflow engine and the ingestor.
type Storage interface {
	GetDayPlan(ctx context.Context, date string) (*models.DayPlan, error)
	ListDayPlans(ctx context.Context, dates []string) (map[string]*models.DayPlan, error)
	GetActiveSession(ctx context.Context, date string) (*models.TrainingSession, error)
	ListRecentSets(ctx context.Context, limit int) ([]models.HistoryEntry, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     Storage
	engine *workflow.Engine
	ingest *sheet.Ingestor
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db Storage, engine *workflow.Engine, ingestor *sheet.Ingestor, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		engine: engine,
		ingest: ingestor,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Plan upload (API key required)
	s.router.Route("/api/v1/upload-plan", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleUploadPlan)
	})

	// Plan lookups (no auth — tsnet handles access)
	s.router.Get("/api/v1/plans/{date}", s.handleGetPlan)
	s.router.Get("/api/v1/today-plan", s.handleTodayPlan)
	s.router.Get("/api/v1/week", s.handleWeekPlan)

	// Training session workflow
	s.router.Post("/api/v1/start-training", s.handleStartTraining)
	s.router.Post("/api/v1/next-set", s.handleNextSet)
	s.router.Get("/api/v1/current-session", s.handleCurrentSession)
	s.router.Post("/api/v1/finish-training", s.handleFinishTraining)
	s.router.Get("/api/v1/training-history", s.handleTrainingHistory)
}

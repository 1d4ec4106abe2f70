package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lazypower/portfolio/internal/engine"
	"github.com/lazypower/portfolio/internal/store"
)

// Server is the portfolio HTTP API server.
type Server struct {
	db      *store.DB
	engine  *engine.Engine
	version string
	started time.Time
	router  chi.Router
}

// New creates a new Server with the given database, engine, and version string.
func New(db *store.DB, eng *engine.Engine, version string) *Server {
	s := &Server{
		db:      db,
		engine:  eng,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/activities", s.handleListActivities)
		r.Post("/activities", s.handleAddActivity)
		r.Delete("/activities/{name}", s.handleDeleteActivity)

		r.Post("/sessions", s.handleLogSession)
		r.Get("/events", s.handleListEvents)
		r.Delete("/events/last", s.handleUndo)

		r.Get("/dashboard", s.handleDashboard)

		r.Get("/exam", s.handleExamStatus)
		r.Post("/exam", s.handleActivateExam)

		r.Get("/bounties", s.handleListBounties)
		r.Post("/bounties", s.handlePostBounty)
		r.Post("/bounties/{name}/claim", s.handleClaimBounty)
		r.Delete("/bounties/{name}", s.handleDeleteBounty)

		r.Get("/report", s.handleReport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

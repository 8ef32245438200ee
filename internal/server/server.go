package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/gymbuddy/internal/coach"
	"github.com/claude/gymbuddy/internal/storage"
	"github.com/claude/gymbuddy/internal/voice"
	"github.com/go-chi/chi/v5"
)

// StatusSource provides the latest coaching snapshot.
type StatusSource interface {
	Status() coach.Status
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      *storage.DB
	status  StatusSource
	intents *voice.Queue
	log     *slog.Logger
	router  chi.Router
}

// New creates a new Server with all routes configured. db may be nil when
// running journal-only; log endpoints then report the database as
// unavailable.
func New(db *storage.DB, status StatusSource, intents *voice.Queue, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		status:  status,
		intents: intents,
		log:     log,
		router:  chi.NewRouter(),
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

	s.router.Get("/healthz", s.handleHealth)

	// Live coaching surface; tsnet handles access control.
	s.router.Get("/api/v1/status", s.handleStatus)
	s.router.Post("/api/v1/intent", s.handleIntent)

	// Workout history
	s.router.Get("/api/v1/logs", s.handleQueryLogs)
	s.router.Get("/api/v1/logs/stats", s.handleLogStats)
}

// MountMCP attaches the MCP transport handler under /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}

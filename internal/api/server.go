package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stencilworks/stencil/internal/config"
	"github.com/stencilworks/stencil/internal/registry"
	"github.com/stencilworks/stencil/internal/session"
)

// Server is the HTTP API server for stencil.
type Server struct {
	router   chi.Router
	sessions *session.Manager
	reg      *registry.Store
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *session.Manager, reg *registry.Store, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		reg:      reg,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.StencilAPIKey, s.log))

		r.Post("/api/sessions", s.handleCreateSession)
		r.Post("/api/sessions/import", s.handleImportSession)
		r.Get("/api/sessions/{sessionID}", s.handleGetSession)
		r.Delete("/api/sessions/{sessionID}", s.handleDeleteSession)
		r.Post("/api/sessions/{sessionID}/reset", s.handleResetSession)
		r.Post("/api/sessions/{sessionID}/selections", s.handleAddSelection)
		r.Delete("/api/sessions/{sessionID}/selections/{selectionID}", s.handleRemoveSelection)
		r.Get("/api/sessions/{sessionID}/highlight", s.handleHighlight)
		r.Get("/api/sessions/{sessionID}/banks", s.handleSessionBanks)
		r.Post("/api/sessions/{sessionID}/compile", s.handleCompile)

		r.Get("/api/categories", s.handleListCategories)
		r.Post("/api/categories", s.handleCreateCategory)
		r.Get("/api/banks", s.handleListBanks)
		r.Get("/api/banks/{bankID}", s.handleGetBank)
		r.Get("/api/templates", s.handleListTemplates)
		r.Get("/api/templates/{templateID}", s.handleGetTemplate)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

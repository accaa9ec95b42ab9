// Package server exposes the Slack-facing HTTP surface: the events endpoint,
// slash commands, and health checks. Long-running work is dispatched to
// background goroutines so Slack gets its acknowledgement within the
// three-second window.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"pulsebot/internal/config"
	"pulsebot/internal/core"
	"pulsebot/internal/digest"
	"pulsebot/internal/logger"
	"pulsebot/internal/messaging"
	"pulsebot/internal/profile"
	"pulsebot/internal/search"
	"pulsebot/internal/store"
)

// Poster sends formatted messages back to Slack.
type Poster interface {
	PostMessage(ctx context.Context, channel string, message messaging.SlackMessage) error
}

// Assistant produces the LLM-generated parts of a response. A nil Assistant
// degrades every flow to its non-generative fallback.
type Assistant interface {
	SummarizeDigest(ctx context.Context, profile core.UserProfile, articles []core.Article) (string, error)
	Answer(ctx context.Context, article core.Article, topic core.Topic, message string) (string, error)
	SummarizeText(ctx context.Context, title, text string) (string, error)
}

// Deps carries the wired application components.
type Deps struct {
	Store     store.UserState
	Curator   *digest.Curator
	Profiles  *profile.Manager
	Poster    Poster
	Assistant Assistant
	Search    search.Provider
}

// Server represents the HTTP server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	cfg        *config.Config
	deps       Deps
	log        *slog.Logger
	jobTimeout time.Duration
}

// New creates a new HTTP server instance.
func New(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		cfg:        cfg,
		deps:       deps,
		log:        logger.Get(),
		jobTimeout: 60 * time.Second,
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  config.GetTimeout(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.GetTimeout(cfg.Server.WriteTimeout, 30*time.Second),
	}

	return s
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(10 * time.Second))

	if s.cfg.Server.CORS.Enabled {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Server.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
}

// setupRoutes configures routes for the server.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		if s.cfg.Slack.SigningSecret != "" {
			r.Use(verifySlackSignature(s.cfg.Slack.SigningSecret))
		}
		r.Post("/slack/events", s.handleSlackEvents)
		r.Post("/slack/commands", s.handleSlackCommand)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Router returns the chi router instance (useful for testing).
func (s *Server) Router() *chi.Mux {
	return s.router
}

// dispatch runs fn on a background goroutine with a bounded lifetime, so
// handlers can acknowledge immediately.
func (s *Server) dispatch(fn func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

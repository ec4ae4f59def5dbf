// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: main.go hands over config, and New assembles
// the whole dependency chain in one place —
//
//	sqlite.DB → repository interfaces → services → handlers → routes
//
// Each layer only receives what it needs: services get repository interfaces
// rather than the concrete *sqlite.DB, handlers get services and never touch
// the database.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/auth"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/canvas"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/handler"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/middleware"
	sqliteRepo "github.com/jpcpamies/IdeaFlow-sub000/internal/repository/sqlite"
	"github.com/jpcpamies/IdeaFlow-sub000/internal/service"
)

// Config holds server configuration, loaded from the environment in main.
//
// The GitHub fields are optional: when ClientID is empty the OAuth routes
// answer 404 and email/password login is the only way in.
type Config struct {
	Port               int
	DBPath             string
	JWTSecret          string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server and wires the full dependency chain.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and every route.
//
// Middleware order matters — it runs in the order added: RequestID for
// tracing, RealIP behind proxies, Recoverer so a panic is a 500 rather than
// a dead process, then our request logger.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Shared infrastructure ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	} else {
		s.logger.Info("GitHub OAuth not configured, email/password login only")
	}

	cache := canvas.NewIdeaCache()

	// === Services ===
	// s.db implements every repository interface; each service receives only
	// the interfaces it uses.
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	ideaService := service.NewIdeaService(s.db, s.db, cache, s.logger)
	groupService := service.NewGroupService(s.db, cache, s.logger)
	todoListService := service.NewTodoListService(s.db, s.db, s.db, s.db, s.db, s.db, cache, s.logger)
	taskService := service.NewTaskService(s.db, s.db, s.db, s.db, s.db, s.db, cache, s.logger)
	sectionService := service.NewSectionService(s.db, s.db, s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	ideaHandler := handler.NewIdeaHandler(ideaService, s.logger)
	groupHandler := handler.NewGroupHandler(groupService, s.logger)
	todoListHandler := handler.NewTodoListHandler(todoListService, s.logger)
	taskHandler := handler.NewTaskHandler(taskService, s.logger)
	sectionHandler := handler.NewSectionHandler(sectionService, s.logger)

	// === Public routes ===
	s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
	s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		// === Protected routes ===
		// Everything below is owner-scoped; RequireAuth puts the userID in
		// the request context and handlers read it from there.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.HandleMe)

			r.Get("/ideas", ideaHandler.HandleList)
			r.Post("/ideas", ideaHandler.HandleCreate)
			r.Get("/ideas/{id}", ideaHandler.HandleGet)
			r.Patch("/ideas/{id}", ideaHandler.HandleUpdate)
			r.Delete("/ideas/{id}", ideaHandler.HandleDelete)

			r.Get("/groups", groupHandler.HandleList)
			r.Post("/groups", groupHandler.HandleCreate)
			r.Get("/groups/{id}", groupHandler.HandleGet)
			r.Patch("/groups/{id}", groupHandler.HandleUpdate)
			r.Delete("/groups/{id}", groupHandler.HandleDelete)

			r.Get("/todolists", todoListHandler.HandleList)
			r.Post("/todolists", todoListHandler.HandleCreate)
			r.Get("/todolists/{id}", todoListHandler.HandleGet)
			r.Patch("/todolists/{id}", todoListHandler.HandleUpdate)
			r.Delete("/todolists/{id}", todoListHandler.HandleDelete)
			r.Delete("/todolists/{id}/completed-tasks", todoListHandler.HandleClearCompleted)
			r.Post("/todolists/{id}/tasks", taskHandler.HandleCreate)
			r.Post("/todolists/{id}/sections", sectionHandler.HandleCreate)

			r.Patch("/sections/{id}", sectionHandler.HandleUpdate)
			r.Delete("/sections/{id}", sectionHandler.HandleDelete)

			r.Patch("/tasks/bulk-update", taskHandler.HandleBulkUpdate)
			r.Delete("/tasks/bulk-delete", taskHandler.HandleBulkDelete)
			r.Patch("/tasks/move-to-todolist", taskHandler.HandleMoveToList)
			r.Patch("/tasks/{id}", taskHandler.HandleRename)
			r.Patch("/tasks/{id}/toggle", taskHandler.HandleToggle)
			r.Patch("/tasks/{id}/reorder", taskHandler.HandleReorder)
			r.Delete("/tasks/{id}", taskHandler.HandleDelete)
		})
	})

	return nil
}

// Handler returns the root handler. Tests serve it with httptest instead of
// binding a real port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database without going through graceful shutdown.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30 seconds,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

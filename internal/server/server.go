// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — just "load config, start the server")
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config.Config and hands it to New(), which assembles:
//   sqlite.DB → repositories → services → handlers → routes
//
// This is the "composition root" pattern — all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
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

	"github.com/sakif/gitfav/internal/auth"
	"github.com/sakif/gitfav/internal/config"
	"github.com/sakif/gitfav/internal/github"
	"github.com/sakif/gitfav/internal/handler"
	"github.com/sakif/gitfav/internal/middleware"
	sqliteRepo "github.com/sakif/gitfav/internal/repository/sqlite"
	"github.com/sakif/gitfav/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection (db). When the server shuts down,
// we must close this connection to flush any pending writes and release the
// file lock. This is handled in Start() during graceful shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config.
//
// DEPENDENCY INJECTION & WIRING:
// This is where the entire dependency chain is assembled:
//  1. Create the database connection (sqlite.New)
//  2. Create auth primitives (TokenService, PasswordService)
//  3. Create the service layer with the repository interfaces
//  4. Create handlers with the services
//  5. Wire handlers to routes
//
// Each layer only receives what it needs:
// - Services get repository interfaces (not the concrete sqlite.DB)
// - Handlers get services (not repositories or the DB)
//
// IMPORT ALIAS:
// We import repository/sqlite as `sqliteRepo` to avoid confusion with
// the sqlite driver package.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	// === CREATE DATABASE ===
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
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// POST   /auth/register            → Create an account (JSON)
// POST   /auth/login               → Log in with email + password (JSON)
// GET    /auth/github/login        → Redirect to GitHub OAuth (only when configured)
// GET    /auth/github/callback     → Complete GitHub OAuth (only when configured)
// GET    /user/favorites           → List the caller's favorites       [auth]
// POST   /user/favorites           → Save a favorite                   [auth]
// DELETE /user/favorites/{repoID}  → Remove a favorite                 [auth]
// GET    /user/searchRepo          → List a GitHub user's public repos [auth]
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added. Our order:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. Logger — logs each request with timing info
//
// RequireAuth is NOT global: it wraps only the /user subtree, so login and
// registration stay reachable without a token.
func (s *Server) setupRoutes() error {
	// === Global Middleware ===
	// These run on EVERY request, in order
	s.router.Use(chimiddleware.RequestID) // Adds X-Request-ID header
	s.router.Use(chimiddleware.RealIP)    // Extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // Recovers from panics, returns 500

	// Our custom logging middleware
	s.router.Use(middleware.Logger(s.logger))

	// === Auth Primitives ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// === GitHub OAuth (optional) ===
	// The provider exists only when client credentials are configured;
	// without it the OAuth routes are simply not registered.
	var ghProvider *auth.GitHubProvider
	if s.config.OAuthEnabled() {
		ghProvider = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	// === Services ===
	// DEPENDENCY CHAIN:
	//   s.db (sqlite.DB) implements repository.UserRepository and
	//   repository.FavoriteRepository; services receive those interfaces.
	//
	// Notice: handlers never touch the database directly.
	// Services never touch HTTP. Clean separation!
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	favoriteService := service.NewFavoriteService(s.db, s.logger)
	searchService := service.NewSearchService(github.NewClient(s.config.GitHubAPIURL), s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authService, ghProvider, s.logger)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService, s.logger)
	searchHandler := handler.NewSearchHandler(searchService, s.logger)

	// === Public Routes ===
	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)

		if ghProvider != nil {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
		}
	})

	// === Protected Routes ===
	// Everything under /user requires a valid Bearer token.
	s.router.Route("/user", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/favorites", favoriteHandler.HandleList)
		r.Post("/favorites", favoriteHandler.HandleCreate)
		r.Delete("/favorites/{repoID}", favoriteHandler.HandleDelete)

		r.Get("/searchRepo", searchHandler.HandleSearchRepos)
	})

	return nil
}

// Router exposes the configured router, mainly for tests that drive the
// full HTTP stack with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's resources without serving. Start() handles
// this itself; Close exists for callers (tests) that use Router() directly.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
//
// If we skip step 3, the database file might be left in an inconsistent state.
// The `defer s.db.Close()` ensures this happens even if something panics.
func (s *Server) Start() error {
	// Ensure the database is closed when the server stops.
	defer s.db.Close()

	// Create the HTTP server with sensible timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to receive OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine (so it doesn't block)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.Bool("oauthEnabled", s.config.OAuthEnabled()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		// Server failed to start
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		// Received shutdown signal
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

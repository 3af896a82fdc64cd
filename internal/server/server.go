// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer. It decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server and the catalog reloader start and stop together
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go: config.LoadServer() → server.New(cfg, logger)
//	New:     sqlite.DB → EligibilityService → EligibilityHandler → routes
//	         sqlite.DB → catalog.Reloader (writes the catalog the service reads)
//
// This is the "composition root": every dependency is wired here, in one place.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/course-eligibility/internal/catalog"
	"github.com/sakif/course-eligibility/internal/config"
	"github.com/sakif/course-eligibility/internal/handler"
	"github.com/sakif/course-eligibility/internal/middleware"
	sqliteRepo "github.com/sakif/course-eligibility/internal/repository/sqlite"
	"github.com/sakif/course-eligibility/internal/service"
)

// shutdownTimeout is how long in-flight requests get after SIGINT/SIGTERM.
const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection and the reloader's scheduler.
// Start stops both on the way out; call Close instead if Start never ran.
type Server struct {
	router   *chi.Mux
	config   config.Server
	logger   *slog.Logger
	db       *sqliteRepo.DB
	reloader *catalog.Reloader
}

// New creates a new Server with the given config.
//
// IMPORT ALIAS:
// repository/sqlite is imported as `sqliteRepo` so it does not read like
// the sqlite driver package.
func New(cfg config.Server, logger *slog.Logger) (*Server, error) {
	// === CREATE DATABASE ===
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		db:       db,
		reloader: catalog.NewReloader(cfg.CatalogPath, cfg.ReloadInterval, db, logger),
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// POST   /get_student_info        → department, study year, regulation
// POST   /check_eligibility       → eligibility decision or relevant courses
// POST   /get_course_suggestions  → autocomplete titles
// POST   /search                  → relevant courses for any title
// GET    /health                  → catalog load status
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: unique id per request, picked up by the logger
// 2. RealIP: client IP from proxy headers
// 3. Logger: one line per request
// 4. Recoverer: a panic becomes a 500 instead of a crash
// 5. CORS: the form is usually served from another origin
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// DEPENDENCY CHAIN:
	//   s.db implements repository.CatalogRepository
	//   EligibilityService receives the repository interface
	//   EligibilityHandler receives the service
	eligibilityService := service.NewEligibilityService(s.db, s.logger)
	eligibilityHandler := handler.NewEligibilityHandler(eligibilityService, s.logger)

	s.router.Post("/get_student_info", eligibilityHandler.HandleStudentInfo)
	s.router.Post("/check_eligibility", eligibilityHandler.HandleCheckEligibility)
	s.router.Post("/get_course_suggestions", eligibilityHandler.HandleCourseSuggestions)
	s.router.Post("/search", eligibilityHandler.HandleSearch)
	s.router.Get("/health", eligibilityHandler.HandleHealth)
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// LoadCatalog imports the catalog file once, regardless of its modification time.
func (s *Server) LoadCatalog(ctx context.Context) error {
	_, err := s.reloader.Load(ctx)
	return err
}

// Close releases the database. Start calls it itself.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start loads the catalog, starts the reloader and serves HTTP until
// SIGINT/SIGTERM.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Stop the reloader, waiting for a running reload
// 4. Close the database connection (flushes WAL, releases file lock)
func (s *Server) Start() error {
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A failed first load is not fatal: a catalog from an earlier run may
	// still be in the database, and the reloader retries on every tick.
	if err := s.LoadCatalog(ctx); err != nil {
		s.logger.Error("initial course catalog load failed",
			slog.String("path", s.config.CatalogPath),
			slog.String("error", err.Error()),
		)
	}

	if err := s.reloader.Start(ctx); err != nil {
		return fmt.Errorf("starting catalog reloader: %w", err)
	}
	defer s.reloader.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.String("catalog", s.config.CatalogPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

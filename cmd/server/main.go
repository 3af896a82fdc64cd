// Package main is the entry point for the course eligibility API server.
//
// The main package stays small. Its job is to:
// 1. Read configuration from environment variables
// 2. Create dependencies (logger, data directory)
// 3. Start the server
//
// Everything else lives in internal/server and the packages it wires together.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/course-eligibility/internal/config"
	"github.com/sakif/course-eligibility/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	// See internal/config for the variables and their defaults.
	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// LOG_LEVEL picks the minimum level: debug, info, warn or error.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// === 3. DATABASE DIRECTORY ===
	// The SQLite file is created on first start, but its directory must exist.
	// ":memory:" needs no directory at all.
	if cfg.DBPath != ":memory:" {
		dbDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// === 4. CREATE AND START THE SERVER ===
	srv, err := server.New(*cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

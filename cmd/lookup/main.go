// Command lookup is a terminal version of the course eligibility form.
//
// It talks to a running eligibility server (ELIGIBILITY_API_URL) and reads
// commands from stdin:
//
//	reg 311523230001
//	title machine
//	pick 1
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sakif/course-eligibility/internal/client"
	"github.com/sakif/course-eligibility/internal/config"
	"github.com/sakif/course-eligibility/internal/console"
	"github.com/sakif/course-eligibility/internal/form"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Logs go to stderr so they do not mix with the form on stdout.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.NewClient(cfg.BaseURL, client.WithTimeout(cfg.Timeout))
	view := console.NewView(os.Stdout)
	controller := form.NewController(api, view, logger, form.WithDebounce(cfg.Debounce))
	defer controller.Close()

	logger.Debug("lookup started", slog.String("api", cfg.BaseURL))

	if err := console.NewSession(controller, view, os.Stdin).Run(ctx); err != nil {
		logger.Error("reading input", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sakif/course-eligibility/internal/model"
)

// DefaultReloadInterval matches how often the catalog file is expected to change.
const DefaultReloadInterval = 10 * time.Minute

// Store is where a parsed catalog ends up.
type Store interface {
	ReplaceCatalog(ctx context.Context, cat *model.Catalog, source string) (*model.CatalogLoad, error)
}

// Reloader re-reads the catalog file on a cron schedule.
//
// A tick only touches the store when the file's modification time moved.
// A file that fails to parse is logged and skipped; the stored catalog stays
// as it was, so a half-edited file never empties the catalog.
type Reloader struct {
	cron   *cron.Cron
	spec   string
	path   string
	store  Store
	logger *slog.Logger

	mu      sync.Mutex
	lastMod time.Time
}

// NewReloader creates a Reloader for path that ticks every interval.
func NewReloader(path string, interval time.Duration, store Store, logger *slog.Logger) *Reloader {
	if interval <= 0 {
		interval = DefaultReloadInterval
	}

	cronLog := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	return &Reloader{
		cron: cron.New(
			cron.WithLogger(cronLog),
			// A slow reload must not overlap the next tick.
			cron.WithChain(cron.SkipIfStillRunning(cronLog)),
		),
		spec:   fmt.Sprintf("@every %s", interval),
		path:   path,
		store:  store,
		logger: logger,
	}
}

// Load reads the file and replaces the stored catalog unconditionally.
func (r *Reloader) Load(ctx context.Context) (*model.CatalogLoad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, err := os.Stat(r.path)
	if err != nil {
		return nil, fmt.Errorf("catalog: stat %s: %w", r.path, err)
	}
	return r.loadLocked(ctx, info.ModTime())
}

// ReloadIfChanged replaces the stored catalog if the file changed since the
// last successful load. It reports whether a reload happened.
func (r *Reloader) ReloadIfChanged(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, err := os.Stat(r.path)
	if err != nil {
		return false, fmt.Errorf("catalog: stat %s: %w", r.path, err)
	}
	if info.ModTime().Equal(r.lastMod) {
		return false, nil
	}

	if _, err := r.loadLocked(ctx, info.ModTime()); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Reloader) loadLocked(ctx context.Context, modTime time.Time) (*model.CatalogLoad, error) {
	cat, err := LoadFile(r.path)
	if err != nil {
		return nil, err
	}

	load, err := r.store.ReplaceCatalog(ctx, cat, r.path)
	if err != nil {
		return nil, fmt.Errorf("catalog: storing %s: %w", r.path, err)
	}
	r.lastMod = modTime

	r.logger.Info("course catalog loaded",
		slog.String("load_id", load.ID),
		slog.String("source", load.Source),
		slog.Int("departments", load.Departments),
		slog.Int("sheet_courses", load.SheetCourses),
		slog.Int("online_courses", load.OnlineCourses),
	)
	return load, nil
}

// Start registers the reload job and starts the scheduler.
// ctx is handed to every reload; cancel it (or call Stop) to end them.
func (r *Reloader) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		reloaded, err := r.ReloadIfChanged(ctx)
		if err != nil {
			r.logger.Error("course catalog reload failed, keeping previous catalog",
				slog.String("path", r.path),
				slog.String("error", err.Error()),
			)
			return
		}
		if !reloaded {
			r.logger.Debug("course catalog unchanged", slog.String("path", r.path))
		}
	})
	if err != nil {
		return fmt.Errorf("catalog: scheduling reload %q: %w", r.spec, err)
	}

	r.cron.Start()
	r.logger.Info("course catalog reloader started", slog.String("schedule", r.spec))
	return nil
}

// Stop halts the scheduler and waits for a running reload to finish.
func (r *Reloader) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("course catalog reloader stopped")
}

// Package app wires the catalog, the project store, the library service
// and the background rescans into one running instance.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roamly/roamly/internal/library"
	"github.com/roamly/roamly/internal/ocr"
	"github.com/roamly/roamly/internal/paths"
	"github.com/roamly/roamly/internal/projectstore"
	"github.com/roamly/roamly/internal/settings"
	"github.com/roamly/roamly/internal/sqlite"
	"github.com/roamly/roamly/internal/storage"
	"github.com/roamly/roamly/internal/watcher"
	"github.com/roamly/roamly/pkg/types"
)

// Option customizes New.
type Option func(*App)

// WithRecognizer replaces the tesseract recognizer.
func WithRecognizer(r ocr.Recognizer) Option {
	return func(a *App) { a.recognizer = r }
}

// App is a running roamly instance.
type App struct {
	cfg        Config
	logger     *zap.Logger
	recognizer ocr.Recognizer

	Settings *settings.Holder
	Catalog  *sqlite.Backend
	Store    *projectstore.Store
	Library  *library.Service

	scanMu sync.Mutex

	mu        sync.Mutex
	bgCtx     context.Context
	watcher   *watcher.Watcher
	scheduler *watcher.Scheduler
}

// New attaches the catalog and builds the services. Background rescans are
// not started.
func New(ctx context.Context, cfg Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	a := &App{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(a)
	}

	defaults := cfg.Storage()
	dir, err := settings.ExpandPath(defaults.MapLibraryDir)
	if err != nil {
		return nil, err
	}
	defaults.MapLibraryDir = dir

	a.Settings, err = settings.Load(cfg.DataDir, defaults, logger.Named("settings"))
	if err != nil {
		return nil, err
	}

	a.Catalog = sqlite.NewBackend()
	if err := a.Catalog.Attach(ctx, sqlite.Config{DataDir: cfg.DataDir}); err != nil {
		return nil, fmt.Errorf("attaching catalog: %w", err)
	}

	open := func(sc types.StorageConfig) (storage.Backend, error) {
		return storage.Open(sc, logger.Named("storage"))
	}
	a.Store = projectstore.New(paths.ProjectCacheDir(cfg.DataDir), a.Settings, open, logger.Named("projectstore"))

	if a.recognizer == nil && cfg.OCR.Enabled {
		a.recognizer = ocr.NewTesseract(cfg.OCR.Command, cfg.OCR.Lang, cfg.OCR.Timeout)
	}
	lang := cfg.OCR.Lang
	if lang == "" {
		lang = ocr.DefaultLang
	}
	a.Library = library.New(library.Options{
		Catalog:    a.Catalog,
		Store:      a.Store,
		Settings:   a.Settings,
		Open:       open,
		Recognizer: a.recognizer,
		OCRLang:    lang,
		Logger:     logger.Named("library"),
	})

	logger.Info("roamly ready",
		zap.String("data_dir", cfg.DataDir),
		zap.String("project_key", a.Settings.Current().ProjectKey()))
	return a, nil
}

// Config returns the static configuration.
func (a *App) Config() Config { return a.cfg }

// Rescan scans the active library and queues OCR for new or changed maps.
// Rescans never overlap.
func (a *App) Rescan(ctx context.Context) (library.ScanResult, error) {
	a.scanMu.Lock()
	defer a.scanMu.Unlock()

	res, err := a.Library.ScanLibrary(ctx)
	if err != nil {
		return res, err
	}
	queued, err := a.Library.QueueCandidates(ctx, false, 0)
	if err != nil {
		a.logger.Warn("cannot queue OCR candidates", zap.Error(err))
	} else if queued > 0 {
		a.logger.Info("OCR candidates queued", zap.Int("count", queued))
	}
	return res, nil
}

func (a *App) rescanFunc(ctx context.Context) error {
	_, err := a.Rescan(ctx)
	return err
}

// StartBackground starts the library watcher and the rescan schedule
// for the active configuration. They keep running until StopBackground or
// until ctx ends.
func (a *App) StartBackground(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.bgCtx != nil {
		return errors.New("background rescans already running")
	}
	if err := a.startLocked(ctx); err != nil {
		return err
	}
	a.bgCtx = ctx
	return nil
}

// StopBackground stops the watcher and the schedule.
func (a *App) StopBackground() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
	a.bgCtx = nil
}

// startLocked starts the watcher (local library with watching enabled)
// and the scheduler (non-empty rescan_cron). Caller holds a.mu.
func (a *App) startLocked(ctx context.Context) error {
	cur := a.Settings.Current()
	if a.cfg.WatchLibrary && cur.Driver == types.DriverLocal && cur.MapLibraryDir != "" {
		w := watcher.New(cur.MapLibraryDir, a.rescanFunc, a.logger.Named("watcher"))
		if err := w.Start(ctx); err != nil {
			a.logger.Warn("library watcher not started", zap.String("dir", cur.MapLibraryDir), zap.Error(err))
		} else {
			a.watcher = w
		}
	}
	if a.cfg.RescanCron != "" {
		s, err := watcher.NewScheduler(a.cfg.RescanCron, a.rescanFunc, a.logger.Named("cron"))
		if err != nil {
			a.stopLocked()
			return err
		}
		if err := s.Start(ctx); err != nil {
			a.stopLocked()
			return err
		}
		a.scheduler = s
	}
	return nil
}

func (a *App) stopLocked() {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.scheduler = nil
	}
}

// Watching reports whether the library watcher is running.
func (a *App) Watching() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.watcher != nil && a.watcher.Running()
}

// SwitchStorage changes the active library. Background rescans are stopped
// before the settings change and restarted for the new library; the new
// library is then scanned and its OCR candidates queued.
func (a *App) SwitchStorage(ctx context.Context, u settings.Update) (types.StorageConfig, library.ScanResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()
	cfg, err := a.Settings.Update(u)
	if err != nil {
		if a.bgCtx != nil {
			if rerr := a.startLocked(a.bgCtx); rerr != nil {
				a.logger.Warn("cannot restart background rescans", zap.Error(rerr))
			}
		}
		return types.StorageConfig{}, library.ScanResult{}, err
	}

	if err := a.Store.Reload(ctx); err != nil {
		a.logger.Warn("cannot load project store for new library", zap.Error(err))
	}
	if a.bgCtx != nil {
		if err := a.startLocked(a.bgCtx); err != nil {
			return cfg, library.ScanResult{}, err
		}
	}

	res, err := a.Rescan(ctx)
	if err != nil {
		return cfg, res, fmt.Errorf("scanning new library: %w", err)
	}
	return cfg, res, nil
}

// Run scans the library, starts the OCR worker and the background
// rescans, and blocks until ctx ends.
func (a *App) Run(ctx context.Context) error {
	if a.recognizer != nil {
		if err := a.Library.StartOCR(ctx); err != nil {
			a.logger.Warn("OCR worker not started", zap.Error(err))
		} else {
			defer a.Library.StopOCR()
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := a.Rescan(gctx)
		if err != nil {
			a.logger.Error("initial scan failed", zap.Error(err))
			return nil
		}
		a.logger.Info("initial scan finished", zap.Int("scanned", res.Scanned), zap.Int("removed", res.Removed))
		return nil
	})
	g.Go(func() error {
		return a.StartBackground(ctx)
	})
	if err := g.Wait(); err != nil {
		a.StopBackground()
		return err
	}
	defer a.StopBackground()

	<-ctx.Done()
	return nil
}

// Close stops background work and detaches the catalog.
func (a *App) Close() error {
	a.StopBackground()
	a.Library.StopOCR()
	return a.Catalog.Detach()
}

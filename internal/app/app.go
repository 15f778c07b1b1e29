// Package app wires configuration into the label services and transports.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"labelkit/internal/config"
	"labelkit/internal/domain/labels"
	"labelkit/internal/domain/render"
	"labelkit/internal/domain/scan"
	"labelkit/internal/infrastructure/barcode"
	"labelkit/internal/infrastructure/cache"
	v1 "labelkit/internal/infrastructure/http/v1"
	"labelkit/internal/infrastructure/scanner"
	"labelkit/internal/infrastructure/storage/file"
	"labelkit/internal/infrastructure/storage/sqlite"
	"labelkit/pkg/logger"
	"labelkit/pkg/numerator"
)

// Version is reported by the health endpoint and the CLI.
var Version = "0.1.0"

// Repository is a persistence adapter that can report readiness.
type Repository interface {
	labels.Repository
	Ping(ctx context.Context) error
}

// App holds the wired services.
type App struct {
	Config   *config.Config
	Log      *logger.Logger
	Store    Repository
	Labels   *labels.Service
	Renderer *render.Orchestrator
	Barcodes *cache.RasterCache
	Scans    *scan.Manager

	closers []func() error
}

// New builds the services described by cfg.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Default()
	}
	a := &App{Config: cfg, Log: log}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Store = store

	policy, err := cfg.DuplicatePolicy()
	if err != nil {
		a.Close()
		return nil, err
	}
	gen, err := numerator.New(cfg.Numerator(), nil)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Labels, err = labels.NewService(labels.ServiceConfig{
		Repo:      store,
		Numerator: gen,
		Policy:    policy,
		Logger:    log,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Renderer = render.NewOrchestrator(render.DefaultCellStyle(), log)
	a.Barcodes = cache.NewRasterCache(barcode.NewCode128(), cache.DefaultRasterEntries)
	a.Scans = scan.NewManager(a.ScanOptions(), a.ScanBackends()...)

	log.Infow("labelkit initialized",
		"storage", cfg.Storage.Driver,
		"path", cfg.Storage.Path,
		"duplicates", policy.String(),
	)
	return a, nil
}

func (a *App) openStore(ctx context.Context) (Repository, error) {
	cfg := a.Config.Storage
	switch cfg.Driver {
	case config.StorageFile:
		return file.New(cfg.Path, a.Log), nil
	case config.StorageSQLite:
		store, err := sqlite.Open(ctx, cfg.Path, a.Log, sqlite.WithCompressThreshold(cfg.CompressThreshold))
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// ScanBackends returns the configured backends in preference order:
// the hardware reader first, the image-drop decoder as fallback.
func (a *App) ScanBackends() []scan.Backend {
	return []scan.Backend{
		scanner.NewWedge(a.Config.Scanner.Device),
		scanner.NewImageDir(a.Config.Scanner.ImageDir, a.Log),
	}
}

// ScanOptions returns session options from the scanner config.
func (a *App) ScanOptions() scan.Options {
	return scan.Options{
		Interval: a.Config.Scanner.Interval,
		Timeout:  a.Config.Scanner.Timeout,
		Logger:   a.Log,
	}
}

// Station returns an unattended scanner that records every decoded
// identifier under the configured prefix.
func (a *App) Station() (*scan.Station, error) {
	prefix := a.Config.Scanner.Prefix
	if prefix == "" {
		return nil, errors.New("scanner.prefix is required for the scan station")
	}
	sink := func(ctx context.Context, identifier string) error {
		_, err := a.Labels.Add(ctx, identifier, prefix)
		return err
	}
	opts := scan.StationOptions{
		Session:  a.ScanOptions(),
		Debounce: a.Config.Scanner.Debounce,
	}
	return scan.NewStation(sink, opts, a.ScanBackends()...), nil
}

// Router builds the HTTP API.
func (a *App) Router() *gin.Engine {
	return v1.NewRouter(v1.RouterConfig{
		Logger:      a.Log,
		Labels:      a.Labels,
		Renderer:    a.Renderer,
		Barcodes:    a.Barcodes,
		Geometry:    a.Config.Geometry(),
		Scans:       a.Scans,
		Storage:     a.Store,
		StorageName: a.Config.Storage.Driver,
		Version:     Version,
		Debug:       a.Config.Log.Level == "debug",
	})
}

// Serve runs the HTTP API until ctx is done, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	cfg := a.Config.HTTP
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	a.Scans.StopAll()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.Log.Info("server stopped")
	return nil
}

// Close releases storage handles.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

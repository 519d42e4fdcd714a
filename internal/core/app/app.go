package app

import (
	"context"
	"log/slog"
	"sync"

	"bem/internal/core/config"
	"bem/internal/data/manifest"
	"bem/internal/engine/bem"
	"bem/internal/shared/observability"
)

type App struct {
	Config   *config.Config
	Registry *Registry

	watchMu sync.Mutex
	watcher *manifest.Watcher
}

// New loads the configured class manifest and builds the registry around it.
func New(cfg *config.Config) (*App, error) {
	mapping, err := manifest.Load(cfg.Manifest.Path, cfg.Manifest.Format)
	if err != nil {
		return nil, err
	}
	registry, err := NewRegistry(mapping, cfg.Cache.Resolvers)
	if err != nil {
		return nil, err
	}
	slog.Info("class manifest loaded", "path", cfg.Manifest.Path, "summary", manifest.Summary(mapping))
	return &App{Config: cfg, Registry: registry}, nil
}

// StartWatcher reloads the registry whenever the manifest file changes.
// It is a no-op when the watcher is already running.
func (a *App) StartWatcher(ctx context.Context) error {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.watcher != nil {
		return nil
	}

	m := a.Config.Manifest
	w := manifest.NewWatcher(m.Path, m.Format, m.Debounce, a.onManifestChange, a.onManifestError)
	if err := w.Start(ctx); err != nil {
		return err
	}
	a.watcher = w
	return nil
}

func (a *App) Close() {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
}

func (a *App) onManifestChange(mapping bem.Mapping) {
	if err := a.Registry.Replace(mapping); err != nil {
		a.onManifestError(err)
		return
	}
	observability.ManifestReloadsTotal.WithLabelValues("ok").Inc()
}

func (a *App) onManifestError(err error) {
	slog.Warn("keeping previous class mapping", "error", err)
	observability.ManifestReloadsTotal.WithLabelValues("error").Inc()
}

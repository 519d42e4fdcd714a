package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app.Registry == nil {
		status.Status = "down"
		status.Components["manifest"] = "missing"
		return status
	}

	mapping := s.app.Registry.Mapping()
	status.Components["manifest"] = fmt.Sprintf("ok (%d keys, %d blocks, loaded %s)",
		len(mapping), len(s.app.Registry.Blocks()), s.app.Registry.LoadedAt().Format(time.RFC3339))

	status.Components["resolvers"] = fmt.Sprintf("ok (%d cached)", s.app.Registry.CachedResolvers())

	s.app.watchMu.Lock()
	watching := s.app.watcher != nil
	s.app.watchMu.Unlock()
	switch {
	case watching:
		status.Components["watcher"] = "ok"
	case s.app.Config != nil && s.app.Config.Manifest.Watch:
		status.Status = "degraded"
		status.Components["watcher"] = "enabled in config but not running"
	}

	return status
}

package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bem/internal/core/config"
	domainerrors "bem/internal/core/errors"
	"bem/internal/engine/bem"
	"bem/internal/shared/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, manifestJSON string) *App {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "classes.json")
	require.NoError(t, os.WriteFile(path, []byte(manifestJSON), 0o644))

	cfg := config.DefaultConfig()
	cfg.Manifest.Path = path
	cfg.Manifest.Debounce = 20 * time.Millisecond

	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestNewLoadsManifest(t *testing.T) {
	a := newTestApp(t, `{"btn": "c1", "btn--primary": "c2", "btn__label": "c3"}`)

	got, err := a.Registry.Block("btn", "", bem.Mod("primary"))
	require.NoError(t, err)
	assert.Equal(t, "c1 c2", got)
}

func TestNewMissingManifest(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Manifest.Path = filepath.Join(t.TempDir(), "missing.json")

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
}

func TestWatcherSwapsMapping(t *testing.T) {
	a := newTestApp(t, `{"btn": "c1"}`)
	require.NoError(t, a.StartWatcher(context.Background()))
	require.NoError(t, a.StartWatcher(context.Background()), "second start is a no-op")

	ok := testutil.ToFloat64(observability.ManifestReloadsTotal.WithLabelValues("ok"))
	require.NoError(t, os.WriteFile(a.Config.Manifest.Path, []byte(`{"btn": "c9"}`), 0o644))

	assert.Eventually(t, func() bool {
		got, err := a.Registry.Block("btn", "")
		return err == nil && got == "c9"
	}, 5*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(observability.ManifestReloadsTotal.WithLabelValues("ok")), ok+1)
}

func TestWatcherKeepsMappingOnBrokenManifest(t *testing.T) {
	a := newTestApp(t, `{"btn": "c1"}`)
	require.NoError(t, a.StartWatcher(context.Background()))

	failed := testutil.ToFloat64(observability.ManifestReloadsTotal.WithLabelValues("error"))
	require.NoError(t, os.WriteFile(a.Config.Manifest.Path, []byte(`{"btn": 1}`), 0o644))

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(observability.ManifestReloadsTotal.WithLabelValues("error")) > failed
	}, 5*time.Second, 10*time.Millisecond)

	got, err := a.Registry.Block("btn", "")
	require.NoError(t, err)
	assert.Equal(t, "c1", got)
}

func TestHealthCheck(t *testing.T) {
	a := newTestApp(t, `{"btn": "c1", "card": "c2", "card__title": "c3"}`)
	hs := NewHealthService(a)

	status := hs.Check(context.Background())
	assert.Equal(t, "up", status.Status)
	assert.Contains(t, status.Components["manifest"], "3 keys, 2 blocks")
	assert.Equal(t, "ok (0 cached)", status.Components["resolvers"])
	assert.NotContains(t, status.Components, "watcher")

	_, err := a.Registry.Element("card", "title", "")
	require.NoError(t, err)
	status = hs.Check(context.Background())
	assert.Equal(t, "ok (1 cached)", status.Components["resolvers"])

	a.Config.Manifest.Watch = true
	status = hs.Check(context.Background())
	assert.Equal(t, "degraded", status.Status)

	require.NoError(t, a.StartWatcher(context.Background()))
	status = hs.Check(context.Background())
	assert.Equal(t, "up", status.Status)
	assert.Equal(t, "ok", status.Components["watcher"])
}

package manifest

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"bem/internal/engine/bem"
)

// Watcher reloads a manifest whenever the file is written or replaced.
type Watcher struct {
	path     string
	format   string
	debounce time.Duration
	onChange func(bem.Mapping)
	onError  func(error)
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewWatcher(path, format string, debounce time.Duration, onChange func(bem.Mapping), onError func(error)) *Watcher {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	return &Watcher{
		path:     path,
		format:   format,
		debounce: debounce,
		onChange: onChange,
		onError:  onError,
		stop:     make(chan struct{}),
	}
}

// Start begins watching until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory so atomic saves (rename over the file) are seen.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer watcher.Close()

		slog.Info("watching class manifest", "path", w.path)

		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(w.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(w.debounce, w.reload)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("manifest watcher error", "path", w.path, "error", err)

			case <-w.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()
}

func (w *Watcher) reload() {
	mapping, err := Load(w.path, w.format)
	if err != nil {
		slog.Error("failed to reload class manifest", "path", w.path, "error", err)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	slog.Info("class manifest reloaded", "path", w.path, "summary", Summary(mapping))
	if w.onChange != nil {
		w.onChange(mapping)
	}
}

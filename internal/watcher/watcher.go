// Package watcher keeps the upload staging directory alive: if it is
// removed while the server runs, it is recreated so future uploads keep
// working. It watches the parent directory since fsnotify cannot watch a
// path that no longer exists.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher monitors the staging directory for deletion and recreates it.
type Watcher struct {
	stagingDir string
	parentPath string
	watcher    *fsnotify.Watcher
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.Mutex
	running    bool
	debounce   time.Duration
}

// New creates a Watcher for the given staging directory.
func New(stagingDir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(stagingDir)
	if err != nil {
		abs = stagingDir
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		stagingDir: abs,
		parentPath: filepath.Dir(abs),
		watcher:    fsw,
		ctx:        ctx,
		cancel:     cancel,
		debounce:   100 * time.Millisecond,
	}, nil
}

// Start begins watching for deletion events.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.parentPath); err != nil {
		log.Warn().Err(err).Str("path", w.parentPath).Msg("failed to watch staging parent")
		// Continue anyway; recreation is a convenience, not a contract.
	}

	go w.watchLoop()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	var debounceTimer *time.Timer

	for {
		select {
		case <-w.ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != w.stagingDir {
				continue
			}

			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				log.Info().Str("path", w.stagingDir).Msg("staging directory removed")
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(w.debounce, w.recreate)

			case event.Op&fsnotify.Create != 0:
				// Recreated (by us or externally) before the timer fired.
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("staging watcher error")
		}
	}
}

func (w *Watcher) recreate() {
	if _, err := os.Stat(w.stagingDir); err == nil {
		return
	}
	if err := os.MkdirAll(w.stagingDir, 0o755); err != nil {
		log.Warn().Err(err).Str("path", w.stagingDir).Msg("failed to recreate staging directory")
		return
	}
	log.Info().Str("path", w.stagingDir).Msg("recreated staging directory")
}

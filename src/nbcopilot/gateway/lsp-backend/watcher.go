package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/clock"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// bundleWatcher restarts the backend when its script is rebuilt.
// Builds write the bundle in several steps, so restarts are debounced.
type bundleWatcher struct {
	target  string
	watcher *fsnotify.Watcher
	clock   clock.Clock
	delay   time.Duration
	mu      sync.Mutex
	pending clock.Timer
	restart func(ctx context.Context) error
	logger  *zap.SugaredLogger
	closer  chan struct{}
	done    chan struct{}
}

func (s *session) watchBundle(script string) error {
	w, err := newBundleWatcher(script, _bundleDebounce, s.clock, s.logger, s.Restart)
	if err != nil {
		return err
	}
	s.watcher = w
	return nil
}

func newBundleWatcher(script string, delay time.Duration, clk clock.Clock, logger *zap.SugaredLogger, restart func(ctx context.Context) error) (*bundleWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher for backend bundle: %w", err)
	}
	// Watch the directory: bundlers replace the file, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(script)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %q: %w", filepath.Dir(script), err)
	}

	w := &bundleWatcher{
		target:  filepath.Clean(script),
		watcher: watcher,
		clock:   clk,
		delay:   delay,
		restart: restart,
		logger:  logger,
		closer:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.handleChanges()
	logger.Infow("watching backend bundle", "path", w.target)
	return w, nil
}

func (w *bundleWatcher) handleChanges() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			w.handleDebounce()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("Failure in backend bundle watcher: %v", err)
		case <-w.closer:
			w.mu.Lock()
			if w.pending != nil {
				w.pending.Stop()
			}
			w.mu.Unlock()
			return
		}
	}
}

func (w *bundleWatcher) handleDebounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = w.clock.AfterFunc(w.delay, func() {
		w.logger.Infow("backend bundle changed, restarting", "path", w.target)
		if err := w.restart(context.Background()); err != nil {
			w.logger.Warnf("Failed to restart backend after bundle change: %v", err)
		}
	})
}

// Close stops watching and cancels a pending restart.
func (w *bundleWatcher) Close() error {
	close(w.closer)
	<-w.done
	return w.watcher.Close()
}

package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/common"
	"github.com/ternarybob/dernek/internal/models"
	"github.com/ternarybob/dernek/internal/services/content"
)

const defaultDebounce = 500 * time.Millisecond

// Reseeder accepts a reloaded content document and gap-fills the store from it
type Reseeder interface {
	SetDocument(document models.Document)
	SeedAll(ctx context.Context, overwrite bool, groups ...string) (content.Report, error)
}

// ContentWatcher reseeds when the content document changes on disk.
// The parent directory is watched so that editors which replace the file
// by rename are still noticed.
type ContentWatcher struct {
	path     string
	debounce time.Duration
	seeder   Reseeder
	groups   []string
	logger   arbor.ILogger

	mu      sync.Mutex
	timer   *time.Timer
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
	reloads int

	// reloads started by the debounce timer that Stop must wait for
	inflight sync.WaitGroup
}

// NewContentWatcher creates a watcher for one content file
func NewContentWatcher(path string, debounce time.Duration, seeder Reseeder, groups []string, logger arbor.ILogger) *ContentWatcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &ContentWatcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		seeder:   seeder,
		groups:   groups,
		logger:   logger,
	}
}

// Start registers the watch and begins processing events in the background
func (w *ContentWatcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return fmt.Errorf("content watcher already started")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.watcher = watcher
	w.cancel = cancel
	w.done = make(chan struct{})

	done := w.done
	common.SafeGo(w.logger, "content-watcher", func() {
		w.run(runCtx, watcher, done)
	})

	w.logger.Info().
		Str("path", w.path).
		Str("debounce", w.debounce.String()).
		Msg("Content watcher started")
	return nil
}

// Stop ends the watch and waits for the event loop and any running reload to exit
func (w *ContentWatcher) Stop() error {
	w.mu.Lock()
	if w.watcher == nil {
		w.mu.Unlock()
		return nil
	}
	cancel, done, watcher := w.cancel, w.done, w.watcher
	w.watcher = nil
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	cancel()
	<-done
	w.inflight.Wait()
	err := watcher.Close()

	w.logger.Info().Str("path", w.path).Msg("Content watcher stopped")
	return err
}

// Reloads returns how many reloads have completed successfully
func (w *ContentWatcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *ContentWatcher) run(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug().Str("op", event.Op.String()).Str("path", event.Name).Msg("Content file changed")
			w.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Content watcher error")
		}
	}
}

// schedule restarts the debounce timer so a burst of writes reloads once
func (w *ContentWatcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.watcher == nil || ctx.Err() != nil {
			w.mu.Unlock()
			return
		}
		w.inflight.Add(1)
		w.mu.Unlock()
		defer w.inflight.Done()

		if err := w.Reload(ctx); err != nil {
			w.logger.Warn().Err(err).Str("path", w.path).Msg("Content reload failed, keeping previous document")
		}
	})
}

// Reload reads the content file, hands it to the seeder and gap-fills the store.
// A file that cannot be read or parsed leaves the seeder's document unchanged.
func (w *ContentWatcher) Reload(ctx context.Context) error {
	document, err := content.LoadDocument(w.path)
	if err != nil {
		return err
	}

	w.seeder.SetDocument(document)

	report, err := w.seeder.SeedAll(ctx, false, w.groups...)
	if err != nil {
		return fmt.Errorf("reseed after reload: %w", err)
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	w.logger.Info().
		Str("path", w.path).
		Int("created", report.Total.Created).
		Int("skipped", report.Total.Skipped).
		Int("failed", report.Total.Failed).
		Msg("Content document reloaded")
	return nil
}

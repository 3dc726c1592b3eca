package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/terraincognita07/daybloom/internal/logging"
	"go.uber.org/zap"
)

const defaultReloadDebounce = 500 * time.Millisecond

// SeedWatcher re-applies the seed settings whenever the seed file changes.
// The parent directory is watched so editors that replace the file by rename
// are still noticed.
type SeedWatcher struct {
	path     string
	schedule ScheduleTarget
	period   PeriodTarget
	logger   *zap.Logger
	debounce time.Duration
	now      func() time.Time
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	reloads int
	lastErr error
}

func NewSeedWatcher(path string, schedule ScheduleTarget, period PeriodTarget, logger *zap.Logger) (*SeedWatcher, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve seed path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(absolute)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch seed directory: %w", err)
	}

	return &SeedWatcher{
		path:     absolute,
		schedule: schedule,
		period:   period,
		logger:   logging.OrNop(logger).Named("seed"),
		debounce: defaultReloadDebounce,
		now:      time.Now,
		watcher:  fsWatcher,
	}, nil
}

// Run handles file events until ctx is cancelled and then closes the
// underlying watcher.
func (w *SeedWatcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("seed file changed", zap.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.Reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("seed watcher error", zap.Error(err))
		}
	}
}

// Close stops watching without waiting for Run.
func (w *SeedWatcher) Close() error {
	return w.watcher.Close()
}

// Reload reads the seed file and applies its settings. Failures are logged
// and the previous settings stay in place.
func (w *SeedWatcher) Reload() {
	seed, err := LoadSeed(w.path)
	if err == nil {
		err = seed.ApplySettings(w.schedule, w.period, w.now())
	}

	w.mu.Lock()
	w.reloads++
	w.lastErr = err
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("reload seed failed", zap.Error(err))
		return
	}
	w.logger.Info("seed settings reloaded", zap.String("path", w.path))
}

func (w *SeedWatcher) reloadState() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads, w.lastErr
}

package replay

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"

	"github.com/killallgit/vaultchat/pkg/logger"
)

// ReloadDebounce batches the burst of events an editor save produces
const ReloadDebounce = 200 * time.Millisecond

// Watch reloads the script at path whenever it changes until ctx is done.
// A script that fails to load is logged and the previous one stays active.
// The parent directory is watched so editors that replace the file by
// rename are picked up too.
func (s *Server) Watch(ctx context.Context, path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve script path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create script watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	logger.Info("watching replay script %s", path)

	var (
		debounce *clock.Timer
		fire     <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			logger.Debug("replay script %s: %s", ev.Op, ev.Name)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = s.clock.Timer(ReloadDebounce)
			fire = debounce.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("replay script watcher: %v", err)

		case <-fire:
			fire = nil
			debounce = nil
			s.reload(path)
		}
	}
}

func (s *Server) reload(path string) {
	script, err := LoadScript(path)
	if err != nil {
		s.metrics.Reloads.WithLabelValues("error").Inc()
		logger.Warn("keeping previous replay script: %v", err)
		return
	}
	s.SetScript(script)
	s.metrics.Reloads.WithLabelValues("ok").Inc()
	logger.Info("reloaded replay script %q", script.Name)
}

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watch reloads the settings file whenever it is written or recreated and
// hands each valid result to fn. Invalid reloads are logged and skipped. The
// parent directory is watched so editors that replace the file by rename are
// still seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	log := logrus.WithField("component", "config")
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || (!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create)) {
				continue
			}
			if info, err := os.Stat(path); err != nil || info.Size() == 0 {
				continue // truncated mid-write
			}
			cfg, err := Load(path)
			if err != nil {
				log.Warnf("ignoring config reload: %v", err)
				continue
			}
			log.Debugf("config reloaded from %s", path)
			fn(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Debugf("config watcher error: %v", err)
		}
	}
}

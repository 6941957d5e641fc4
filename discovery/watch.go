package discovery

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch follows the index directory and reloads once writes to the
// section's files have been quiet for the debounce window. It blocks until
// ctx is done. Reload failures are logged and keep the previous snapshot.
//
// The parent directory is watched too, so an index directory that is
// removed and created again (a regenerated doc tree) is picked up again.
func (d *Discovery) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Clean(d.opts.Dir)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if parent := filepath.Dir(dir); parent != dir {
		if err := watcher.Add(parent); err != nil {
			d.log.Warn("not watching parent directory", "parent", parent, "error", err)
		}
	}
	d.log.Info("watching index directory", "debounce", d.opts.Debounce)

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !d.relevant(watcher, dir, event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(d.opts.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(d.opts.Debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if _, err := d.Reload(ctx); err != nil && ctx.Err() == nil {
				d.log.Error("watch reload failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.log.Warn("file watcher error", "error", err)
		}
	}
}

// relevant reports whether event should schedule a reload. Events on the
// index directory itself re-arm its watch when it is created again.
func (d *Discovery) relevant(watcher *fsnotify.Watcher, dir string, event fsnotify.Event) bool {
	if filepath.Clean(event.Name) == dir {
		switch {
		case event.Has(fsnotify.Create):
			if err := watcher.Add(dir); err != nil {
				d.log.Warn("re-watching index directory failed", "error", err)
				return false
			}
			d.log.Info("index directory recreated")
			return true
		case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
			d.log.Warn("index directory removed, keeping current index")
			return false
		}
		return false
	}
	if filepath.Dir(filepath.Clean(event.Name)) != dir {
		return false
	}
	return d.isSectionFile(event.Name) && event.Op != fsnotify.Chmod
}

// isSectionFile reports whether path names a shard of the watched section.
func (d *Discovery) isSectionFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, d.opts.Section+"_") && strings.HasSuffix(base, ".js")
}

package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the bursts of events editors produce on save.
const watchDebounce = 250 * time.Millisecond

// watchFile calls fn after path changes, until ctx is done. fn runs on the
// caller's goroutine, so runs never overlap.
func watchFile(ctx context.Context, path string, logger *slog.Logger, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	file := filepath.Base(path)

	reload := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Base(ev.Name), file) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("script change detected", "path", path, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("script watch error", "path", path, "error", err)

		case <-reload:
			fn()
		}
	}
}

// Package watch monitors the drop directory for newly exported raw
// CSVs and hands each one to the pivot stage.
package watch

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Handler processes one dropped export file. Stages stay synchronous:
// the watcher invokes the handler inline, one file at a time.
type Handler func(path string)

// Watcher monitors a directory for new CSV exports.
type Watcher struct {
	dir     string
	handler Handler
	log     zerolog.Logger
}

func New(dir string, handler Handler, log zerolog.Logger) *Watcher {
	return &Watcher{dir: dir, handler: handler, log: log}
}

// Start begins watching. It returns once the underlying watcher is
// registered; events are processed until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-watcher.Events:
				if evt.Op&(fsnotify.Create|fsnotify.Rename) != 0 && isCSV(evt.Name) {
					w.handler(evt.Name)
				}
			case err := <-watcher.Errors:
				w.log.Warn().Err(err).Msg("watcher error")
			}
		}
	}()
	return watcher.Add(w.dir)
}

// Backfill processes exports already sitting in the drop directory.
func (w *Watcher) Backfill() error {
	entries, err := filepath.Glob(filepath.Join(w.dir, "*"))
	if err != nil {
		return err
	}
	for _, e := range entries {
		if isCSV(e) {
			w.handler(e)
		}
	}
	return nil
}

func isCSV(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".csv"
}

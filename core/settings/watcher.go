package settings

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Watcher polls a command-map file for modification time changes and
// replaces the store's command map when the file is rewritten. The
// allow list is never touched; changing it requires a new instance.
type Watcher struct {
	store    *Store
	path     string
	interval time.Duration
	logger   *slog.Logger
	modTime  time.Time
}

// NewWatcher creates a watcher for the given command-map file. The
// file does not need to exist yet; it is picked up when it appears.
func NewWatcher(store *Store, path string, interval time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{
		store:    store,
		path:     path,
		interval: interval,
		logger:   logger,
		modTime:  fileModTime(path),
	}
}

// Run polls until the context is cancelled. It blocks, so call it in
// a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	current := fileModTime(w.path)

	// Skip if the file doesn't exist (may be mid-save) or unchanged.
	if current.IsZero() || current.Equal(w.modTime) {
		return
	}
	w.modTime = current

	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Error("read command map", "path", w.path, "error", err)
		return
	}

	snap := w.store.Current()
	snap.Commands = ParseCommandMap(string(data))
	w.store.Replace(snap)
	w.logger.Info("command map reloaded", "path", w.path, "commands", snap.Commands.Len())
}

// fileModTime returns the file's modification time, or zero if it
// can't be read.
func fileModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// Package watch observes the central home for external mutation: records
// written by other tools and logs appended by the .agentic producers.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/centrallog/internal/repository"
)

// EventCallback is called for each observed change. kind is one of
// "record.created", "record.updated", "record.deleted", "log.created".
// path is relative to the central home.
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher over the records tree and the logs
// directory and forwards change events until ctx is cancelled. Directories
// created at runtime under the records tree are added to the watch list.
func Watch(ctx context.Context, repo *repository.Repository, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	roots := []string{repo.RecordsRoot(), repo.LogsRoot()}
	for _, root := range roots {
		if err := addDirsRecursive(w, root); err != nil {
			return err
		}
	}

	logger.Info("watcher: started", slog.String("home", repo.Home()))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories under the records tree join the watch list.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			if !strings.HasSuffix(absPath, ".json") {
				continue
			}
			// Skip in-flight atomic writes.
			if strings.HasPrefix(filepath.Base(absPath), ".centrallog-tmp-") {
				continue
			}

			kind := classify(repo, absPath, ev.Op)
			if kind == "" {
				continue
			}

			rel, relErr := filepath.Rel(repo.Home(), absPath)
			if relErr != nil {
				rel = absPath
			}
			logger.Debug("watcher: change", slog.String("kind", kind), slog.String("path", rel))
			if cb != nil {
				cb(kind, rel)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// classify maps a filesystem event to a broadcast kind, or "" for events
// outside the two trees. Log entries are append-only, so only creations are
// reported for them.
func classify(repo *repository.Repository, absPath string, op fsnotify.Op) string {
	switch {
	case underDir(absPath, repo.LogsRoot()):
		if op&fsnotify.Create != 0 {
			return "log.created"
		}
		return ""
	case underDir(absPath, repo.RecordsRoot()):
		switch {
		case op&fsnotify.Create != 0:
			return "record.created"
		case op&fsnotify.Write != 0:
			return "record.updated"
		case op&(fsnotify.Remove|fsnotify.Rename) != 0:
			return "record.deleted"
		}
	}
	return ""
}

func underDir(path, dir string) bool {
	return strings.HasPrefix(path, dir+string(os.PathSeparator))
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

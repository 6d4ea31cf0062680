// Package repository owns the on-disk layout of a central home: a records
// tree with one fixed subdirectory per record type and a flat logs directory
// under .agentic/.
package repository

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/starford/centrallog/internal/models"
)

// Repository performs typed CRUD over the two-tree file layout rooted at a
// central home. Scans are tolerant: a malformed file is skipped, never fatal.
// Mutations propagate filesystem errors to the caller.
type Repository struct {
	home        string
	recordsRoot string
	logsRoot    string
}

// New creates a repository rooted at home. The path is resolved once at
// construction; the directories need not exist yet.
func New(home string) *Repository {
	resolved := resolvePath(home)
	return &Repository{
		home:        resolved,
		recordsRoot: filepath.Join(resolved, recordsDirName),
		logsRoot:    filepath.Join(resolved, agenticDirName, logsDirName),
	}
}

// Home returns the resolved central home path.
func (r *Repository) Home() string { return r.home }

// RecordsRoot returns the resolved records tree path.
func (r *Repository) RecordsRoot() string { return r.recordsRoot }

// LogsRoot returns the resolved logs directory path.
func (r *Repository) LogsRoot() string { return r.logsRoot }

// EnsureStructure idempotently creates the records tree, all type
// subdirectories, and the logs directory.
func (r *Repository) EnsureStructure() error {
	for _, subdir := range models.SubdirByType {
		if err := os.MkdirAll(filepath.Join(r.recordsRoot, subdir), 0o755); err != nil {
			return fmt.Errorf("repository: mkdir %s: %w", subdir, err)
		}
	}
	if err := os.MkdirAll(r.logsRoot, 0o755); err != nil {
		return fmt.Errorf("repository: mkdir logs: %w", err)
	}
	return nil
}

// ListRecords scans every canonical type subdirectory for *.json files and
// returns the parsed records sorted by created_at descending. Directories
// outside the fixed set (hidden tooling dirs, nested folders) are never
// visited. Files that fail to parse are skipped.
func (r *Repository) ListRecords() []*models.Record {
	var records []*models.Record

	for _, subdir := range orderedSubdirs() {
		matches, err := filepath.Glob(filepath.Join(r.recordsRoot, subdir, "*.json"))
		if err != nil {
			continue
		}
		sort.Strings(matches)
		for _, jsonPath := range matches {
			data, err := os.ReadFile(jsonPath)
			if err != nil {
				slog.Debug("repository: skipping unreadable record", slog.String("path", jsonPath))
				continue
			}
			record, err := models.DecodeRecord(data)
			if err != nil {
				slog.Debug("repository: skipping malformed record", slog.String("path", jsonPath))
				continue
			}
			record.JSONPath = jsonPath
			record.MDPath = strings.TrimSuffix(jsonPath, ".json") + ".md"
			if record.CreatedAt == "" {
				record.CreatedAt = guessCreatedAt(jsonPath)
			}
			records = append(records, record)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})
	return records
}

// ListLogs scans the flat logs directory with the same tolerant contract and
// returns entries sorted by timestamp descending.
func (r *Repository) ListLogs() []*models.LogEntry {
	var logs []*models.LogEntry

	matches, err := filepath.Glob(filepath.Join(r.logsRoot, "*.json"))
	if err != nil {
		return logs
	}
	sort.Strings(matches)
	for _, jsonPath := range matches {
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			continue
		}
		entry, err := models.DecodeLogEntry(data)
		if err != nil {
			slog.Debug("repository: skipping malformed log", slog.String("path", jsonPath))
			continue
		}
		entry.JSONPath = jsonPath
		if entry.Timestamp == "" {
			entry.Timestamp = guessCreatedAt(jsonPath)
		}
		logs = append(logs, entry)
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp > logs[j].Timestamp
	})
	return logs
}

// SaveRecord persists record as a JSON/Markdown sibling pair. When
// existingJSONPath names a live file its base name is reused, so changing
// the type relocates the pair to the new subdirectory under the same base
// name and the old pair is removed. Returns the freshly re-parsed record
// carrying its storage paths.
func (r *Repository) SaveRecord(record *models.Record, existingJSONPath string) (*models.Record, error) {
	if err := r.EnsureStructure(); err != nil {
		return nil, err
	}

	record.Type = models.NormalizeType(record.Type)
	if record.Title == "" {
		record.Title = "Untitled"
	}
	if record.CreatedAt == "" {
		record.CreatedAt = models.TimestampNow()
	}

	targetDir := filepath.Join(r.recordsRoot, models.SubdirByType[record.Type])

	baseName := ""
	if existingJSONPath != "" && pathExists(existingJSONPath) {
		baseName = strings.TrimSuffix(filepath.Base(existingJSONPath), ".json")
	} else {
		baseName = generateBaseName(record)
	}

	jsonPath := filepath.Join(targetDir, baseName+".json")
	mdPath := filepath.Join(targetDir, baseName+".md")

	data, err := record.StorageBytes()
	if err != nil {
		return nil, fmt.Errorf("repository: encode record: %w", err)
	}
	if err := writeAtomic(jsonPath, data); err != nil {
		return nil, err
	}
	if err := writeAtomic(mdPath, []byte(RecordMarkdown(record))); err != nil {
		return nil, err
	}

	// A type change moved the pair; clean up the old location. Either file
	// may already be gone.
	if existingJSONPath != "" && existingJSONPath != jsonPath && pathExists(existingJSONPath) {
		removeIfExists(existingJSONPath)
		removeIfExists(strings.TrimSuffix(existingJSONPath, ".json") + ".md")
	}

	saved, err := models.DecodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("repository: reparse %s: %w", jsonPath, err)
	}
	saved.JSONPath = jsonPath
	saved.MDPath = mdPath
	return saved, nil
}

// DeleteRecord removes the JSON/Markdown pair. Missing files are not an
// error.
func (r *Repository) DeleteRecord(record *models.Record) error {
	for _, path := range []string{record.JSONPath, record.MDPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("repository: delete %s: %w", path, err)
		}
	}
	return nil
}

// writeAtomic writes content as tmp file → fsync → rename so a concurrent
// scan never observes a half-written file.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("repository: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".centrallog-tmp-*")
	if err != nil {
		return fmt.Errorf("repository: create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("repository: write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("repository: fsync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("repository: close temp for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("repository: rename %s: %w", path, err)
	}
	success = true
	return nil
}

func removeIfExists(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("repository: remove old file failed",
			slog.String("path", path), slog.String("error", err.Error()))
	}
}

// generateBaseName builds <compact-timestamp>_<type>_<slug> for a new pair.
func generateBaseName(record *models.Record) string {
	stamp := time.Now().Format("20060102_150405")
	return stamp + "_" + record.Type + "_" + Slugify(record.Title)
}

// guessCreatedAt synthesizes a timestamp from the file's mtime when the
// document carries none.
func guessCreatedAt(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return info.ModTime().Format(models.TimestampLayout)
}

// orderedSubdirs returns the canonical subdirectories in a stable order so
// equal-timestamp records always list identically.
func orderedSubdirs() []string {
	subdirs := make([]string, 0, len(models.SubdirByType))
	for _, d := range models.SubdirByType {
		subdirs = append(subdirs, d)
	}
	sort.Strings(subdirs)
	return subdirs
}

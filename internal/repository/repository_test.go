package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/centrallog/internal/models"
)

func tempRepo(t *testing.T) *Repository {
	t.Helper()
	repo := New(t.TempDir())
	if err := repo.EnsureStructure(); err != nil {
		t.Fatalf("EnsureStructure: %v", err)
	}
	return repo
}

func TestEnsureStructureIdempotent(t *testing.T) {
	repo := tempRepo(t)
	if err := repo.EnsureStructure(); err != nil {
		t.Fatalf("second EnsureStructure: %v", err)
	}
	for _, subdir := range []string{"decisions", "worklogs", "ideas", "backlogs", "other"} {
		if _, err := os.Stat(filepath.Join(repo.RecordsRoot(), subdir)); err != nil {
			t.Errorf("missing subdir %s: %v", subdir, err)
		}
	}
	if _, err := os.Stat(repo.LogsRoot()); err != nil {
		t.Errorf("missing logs dir: %v", err)
	}
}

func TestSaveAndListRecord(t *testing.T) {
	repo := tempRepo(t)

	saved, err := repo.SaveRecord(&models.Record{
		Type:       "idea",
		Title:      "Desktop 控制台",
		CreatedAt:  "2026-02-06T12:30:00",
		SourceText: "source",
		FinalBody:  "body",
		Tags:       []string{"desktop", "mvp"},
	}, "")
	if err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}
	if saved.JSONPath == "" || saved.MDPath == "" {
		t.Fatal("saved record should carry storage paths")
	}
	if _, err := os.Stat(saved.JSONPath); err != nil {
		t.Fatalf("json file missing: %v", err)
	}
	if _, err := os.Stat(saved.MDPath); err != nil {
		t.Fatalf("md file missing: %v", err)
	}
	if !strings.Contains(saved.JSONPath, filepath.Join("records", "ideas")) {
		t.Errorf("json path %q not under ideas/", saved.JSONPath)
	}

	records := repo.ListRecords()
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
	got := records[0]
	if got.Type != "idea" || got.Title != "Desktop 控制台" {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "desktop" || got.Tags[1] != "mvp" {
		t.Errorf("tags = %v", got.Tags)
	}
}

func TestSaveRecordNormalizesAndSynthesizes(t *testing.T) {
	repo := tempRepo(t)

	saved, err := repo.SaveRecord(&models.Record{Type: "bogus"}, "")
	if err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}
	if saved.Type != "note" {
		t.Errorf("Type = %q, want note", saved.Type)
	}
	if saved.Title != "Untitled" {
		t.Errorf("Title = %q, want Untitled", saved.Title)
	}
	if saved.CreatedAt == "" {
		t.Error("CreatedAt should be synthesized")
	}
	if !strings.Contains(saved.JSONPath, filepath.Join("records", "other")) {
		t.Errorf("json path %q not under other/", saved.JSONPath)
	}
}

func TestSaveRecordTypeChangeRelocates(t *testing.T) {
	repo := tempRepo(t)

	saved, err := repo.SaveRecord(&models.Record{
		Type:      "idea",
		Title:     "move me",
		CreatedAt: "2026-02-06T12:30:00",
	}, "")
	if err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}
	oldJSON, oldMD := saved.JSONPath, saved.MDPath

	saved.Type = "worklog"
	moved, err := repo.SaveRecord(saved, oldJSON)
	if err != nil {
		t.Fatalf("re-save: %v", err)
	}

	if !strings.Contains(moved.JSONPath, filepath.Join("records", "worklogs")) {
		t.Errorf("json path %q not under worklogs/", moved.JSONPath)
	}
	if filepath.Base(moved.JSONPath) != filepath.Base(oldJSON) {
		t.Errorf("base name changed: %q -> %q", filepath.Base(oldJSON), filepath.Base(moved.JSONPath))
	}
	for _, stale := range []string{oldJSON, oldMD} {
		if _, err := os.Stat(stale); !os.IsNotExist(err) {
			t.Errorf("old file still present: %s", stale)
		}
	}
	if got := repo.ListRecords(); len(got) != 1 {
		t.Errorf("len = %d, want 1 after relocation", len(got))
	}
}

func TestSaveRecordUpdateInPlace(t *testing.T) {
	repo := tempRepo(t)

	saved, err := repo.SaveRecord(&models.Record{
		Type:      "note",
		Title:     "v1",
		CreatedAt: "2026-02-06T12:30:00",
	}, "")
	if err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	saved.Title = "v2"
	updated, err := repo.SaveRecord(saved, saved.JSONPath)
	if err != nil {
		t.Fatalf("re-save: %v", err)
	}
	if updated.JSONPath != saved.JSONPath {
		t.Errorf("path changed on in-place update: %q -> %q", saved.JSONPath, updated.JSONPath)
	}
	records := repo.ListRecords()
	if len(records) != 1 || records[0].Title != "v2" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestDeleteRecord(t *testing.T) {
	repo := tempRepo(t)

	saved, err := repo.SaveRecord(&models.Record{Type: "idea", Title: "bye"}, "")
	if err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}
	if err := repo.DeleteRecord(saved); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if got := repo.ListRecords(); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
	// Deleting again is not an error.
	if err := repo.DeleteRecord(saved); err != nil {
		t.Errorf("second DeleteRecord: %v", err)
	}
}

func TestListRecordsSkipsMalformedAndForeignDirs(t *testing.T) {
	repo := tempRepo(t)

	valid := map[string]any{
		"type":       "idea",
		"title":      "real record",
		"created_at": "2026-02-06T10:00:00",
	}
	data, _ := json.Marshal(valid)
	if err := os.WriteFile(filepath.Join(repo.RecordsRoot(), "ideas", "ok.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(repo.RecordsRoot(), "ideas", "bad.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	foreign := filepath.Join(repo.RecordsRoot(), ".obsidian")
	if err := os.MkdirAll(foreign, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(foreign, "noise.json"), []byte(`{"foo":"bar"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	records := repo.ListRecords()
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
	if records[0].Title != "real record" {
		t.Errorf("Title = %q", records[0].Title)
	}
}

func TestListRecordsMtimeFallbackAndSort(t *testing.T) {
	repo := tempRepo(t)

	// No created_at in the document: the file mtime stands in.
	if err := os.WriteFile(filepath.Join(repo.RecordsRoot(), "other", "old.json"), []byte(`{"title":"no stamp"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	newer := map[string]any{"title": "newer", "created_at": "2099-01-01T00:00:00"}
	data, _ := json.Marshal(newer)
	if err := os.WriteFile(filepath.Join(repo.RecordsRoot(), "other", "new.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	records := repo.ListRecords()
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].Title != "newer" {
		t.Errorf("sort order wrong: first = %q", records[0].Title)
	}
	if records[1].CreatedAt == "" {
		t.Error("mtime fallback should fill created_at")
	}
}

func TestListLogs(t *testing.T) {
	repo := tempRepo(t)

	writeLog := func(name, ts string) {
		doc := map[string]any{
			"meta": map[string]any{"timestamp": ts, "event_id": name},
			"task": map[string]any{"intent": "capture_idea", "status": "SUCCESS"},
			"data": map[string]any{"title": "test"},
		}
		data, _ := json.Marshal(doc)
		if err := os.WriteFile(filepath.Join(repo.LogsRoot(), name+".json"), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeLog("a", "2026-02-06T10:00:00")
	writeLog("b", "2026-02-07T10:00:00")
	if err := os.WriteFile(filepath.Join(repo.LogsRoot(), "bad.json"), []byte("]["), 0o644); err != nil {
		t.Fatal(err)
	}

	logs := repo.ListLogs()
	if len(logs) != 2 {
		t.Fatalf("len = %d, want 2", len(logs))
	}
	if logs[0].EventID != "b" {
		t.Errorf("sort order wrong: first = %q", logs[0].EventID)
	}
	if logs[0].TaskIntent != "capture_idea" {
		t.Errorf("TaskIntent = %q", logs[0].TaskIntent)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	repo := tempRepo(t)
	if _, err := repo.SaveRecord(&models.Record{Type: "idea", Title: "tmp check"}, ""); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(repo.RecordsRoot(), "ideas", ".centrallog-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestGeneratedBaseName(t *testing.T) {
	repo := tempRepo(t)
	saved, err := repo.SaveRecord(&models.Record{Type: "decision", Title: "Pick a DB!"}, "")
	if err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}
	// <YYYYMMDD>_<HHMMSS>_<type>_<slug>
	base := strings.TrimSuffix(filepath.Base(saved.JSONPath), ".json")
	parts := strings.SplitN(base, "_", 4)
	if len(parts) != 4 {
		t.Fatalf("base name %q not <stamp>_<type>_<slug>", base)
	}
	if parts[2] != "decision" {
		t.Errorf("type part = %q", parts[2])
	}
	if parts[3] != "pick-a-db" {
		t.Errorf("slug part = %q", parts[3])
	}
}

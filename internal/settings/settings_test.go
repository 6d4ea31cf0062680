package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if len(store.All()) != 0 {
		t.Errorf("All = %v, want empty", store.All())
	}
	if store.Get(KeyCentralHome) != "" {
		t.Errorf("Get on empty store = %q", store.Get(KeyCentralHome))
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	store.Set(KeyCentralHome, "/tmp/home")
	store.Set(KeyOpenAIModel, "gpt-4.1-mini")
	if err := store.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := NewStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.Get(KeyCentralHome); got != "/tmp/home" {
		t.Errorf("central_home = %q", got)
	}
	if got := reloaded.Get(KeyOpenAIModel); got != "gpt-4.1-mini" {
		t.Errorf("openai_model = %q", got)
	}
}

func TestReplace(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	store.Set("stale", "x")
	store.Replace(map[string]string{KeyOpenAIKey: "sk-test"})
	if store.Get("stale") != "" {
		t.Error("Replace should drop old keys")
	}
	if store.Get(KeyOpenAIKey) != "sk-test" {
		t.Errorf("openai_api_key = %q", store.Get(KeyOpenAIKey))
	}
}

func TestNewStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path); err == nil {
		t.Error("expected error for corrupt blob")
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	store.Set("k", "v")
	if err := store.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

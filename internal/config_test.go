package internal

import (
	"os"
	"path/filepath"
	"testing"

	pkgconfig "github.com/starford/centrallog/pkg/config"
)

func TestNewDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if cfg.App.HTTP.Port != 8080 {
		t.Errorf("Port = %d", cfg.App.HTTP.Port)
	}
	if cfg.AI.Model != "gpt-4.1-mini" || cfg.AI.TimeoutSeconds != 45 {
		t.Errorf("AI = %+v", cfg.AI)
	}
	if cfg.Auth.AuthEnabled() {
		t.Error("auth should default to disabled")
	}
}

func TestHTTPConfigValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("port 0 should fail validation")
	}
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("port 70000 should fail validation")
	}
}

func TestHTTPConfigAddress(t *testing.T) {
	cfg := HTTPConfig{Port: 9000}
	if got := cfg.Address(); got != ":9000" {
		t.Errorf("Address = %q", got)
	}
}

func TestAuthConfigValidate(t *testing.T) {
	auth := AuthConfig{Mode: AuthModeToken}
	if err := auth.Validate(); err == nil {
		t.Error("token mode without token should fail")
	}
	auth.Token = "secret"
	if err := auth.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if !auth.AuthEnabled() {
		t.Error("AuthEnabled should be true in token mode")
	}

	empty := AuthConfig{}
	if err := empty.Validate(); err != nil {
		t.Errorf("empty mode should normalise to disabled: %v", err)
	}
	if empty.Mode != AuthModeDisabled {
		t.Errorf("Mode = %q", empty.Mode)
	}

	bad := AuthConfig{Mode: "basic"}
	if err := bad.Validate(); err == nil {
		t.Error("unknown mode should fail")
	}
}

func TestAIConfigValidate(t *testing.T) {
	ai := AIConfig{TimeoutSeconds: 45}
	if err := ai.Validate(); err == nil {
		t.Error("missing model should fail")
	}
	ai.Model = "gpt-4.1-mini"
	if err := ai.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	t.Setenv("TEST_AUTH_TOKEN", "from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
app:
  log_level: debug
  http:
    port: 9999
home:
  path: /tmp/central
auth:
  mode: token
  token: ${TEST_AUTH_TOKEN}
ai:
  model: gpt-4.1
  timeout_seconds: 10
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9999 {
		t.Errorf("Port = %d", cfg.App.HTTP.Port)
	}
	if cfg.Home.Path != "/tmp/central" {
		t.Errorf("Home.Path = %q", cfg.Home.Path)
	}
	if cfg.Auth.Token != "from-env" {
		t.Errorf("env expansion failed: token = %q", cfg.Auth.Token)
	}
	if cfg.AI.Model != "gpt-4.1" || cfg.AI.TimeoutSeconds != 10 {
		t.Errorf("AI = %+v", cfg.AI)
	}
}

func TestLoadIfPresentMissingFileKeepsDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(filepath.Join(t.TempDir(), "absent.yaml"), cfg); err != nil {
		t.Fatalf("LoadIfPresent: %v", err)
	}
	if cfg.App.HTTP.Port != 8080 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("app:\n  http:\n    port: 0\nai:\n  model: x\n  timeout_seconds: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{}
	if err := pkgconfig.Load(path, cfg); err == nil {
		t.Error("invalid port should fail validation")
	}
}

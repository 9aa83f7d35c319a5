package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.API.BaseURL == "" {
		t.Fatal("expected default base URL")
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Fatalf("unexpected default timeout: %v", cfg.RequestTimeout())
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://mail.example.com/api"
	cfg.API.Token = "tok-123"
	cfg.API.Timeout = "5s"
	if err := cfg.Save(dir); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.API.BaseURL != "https://mail.example.com/api" {
		t.Errorf("base URL not persisted: %q", loaded.API.BaseURL)
	}
	if loaded.API.Token != "tok-123" {
		t.Errorf("token not persisted: %q", loaded.API.Token)
	}
	if loaded.RequestTimeout() != 5*time.Second {
		t.Errorf("timeout not persisted: %v", loaded.RequestTimeout())
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("api: ["), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CODEMAILX_BASE_URL", "https://override.example.com/api")
	t.Setenv("CODEMAILX_TOKEN", "env-token")
	t.Setenv("CODEMAILX_DEBUG", "1")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.API.BaseURL != "https://override.example.com/api" {
		t.Errorf("base URL override not applied: %q", cfg.API.BaseURL)
	}
	if cfg.API.Token != "env-token" {
		t.Errorf("token override not applied: %q", cfg.API.Token)
	}
	if !cfg.Logging.DebugMode {
		t.Error("debug override not applied")
	}
}

func TestTimeoutFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Timeout = "not-a-duration"
	if cfg.RequestTimeout() != 30*time.Second {
		t.Fatalf("expected fallback timeout, got %v", cfg.RequestTimeout())
	}
	cfg.UI.NoticeTTL = "bogus"
	if cfg.NoticeTTL() != 4*time.Second {
		t.Fatalf("expected fallback notice TTL, got %v", cfg.NoticeTTL())
	}
}

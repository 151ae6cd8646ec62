package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080/api/v1" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Timeout() != 60*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout())
	}
	if cfg.NavigateDelay() != 2*time.Second {
		t.Errorf("NavigateDelay = %v", cfg.NavigateDelay())
	}
	if cfg.FlashDuration() != 3*time.Second {
		t.Errorf("FlashDuration = %v", cfg.FlashDuration())
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	body := `
[api]
base_url = "http://10.0.0.5:9000/api/v1"
timeout_seconds = 5

[ui]
navigate_delay_ms = 250
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://10.0.0.5:9000/api/v1" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout())
	}
	if cfg.NavigateDelay() != 250*time.Millisecond {
		t.Errorf("NavigateDelay = %v", cfg.NavigateDelay())
	}
	// Unset fields still get defaults.
	if cfg.UI.FlashMS != 3000 {
		t.Errorf("FlashMS = %d", cfg.UI.FlashMS)
	}
}

func TestEnvOverridesBaseURL(t *testing.T) {
	t.Setenv("ARTIGEN_API_BASE", "http://env-host:1234/api/v1")

	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://env-host:1234/api/v1" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
}

func TestValidateRejectsNegatives(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("[api]\ntimeout_seconds = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for negative timeout")
	}
}

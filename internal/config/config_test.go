package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Timezone != "America/Chicago" {
		t.Errorf("timezone = %q, want America/Chicago", cfg.Timezone)
	}
	if cfg.DefaultLimit != DefaultLimit {
		t.Errorf("default limit = %d, want %d", cfg.DefaultLimit, DefaultLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Timezone != "America/Chicago" {
		t.Errorf("expected defaults for missing file, got %+v", cfg)
	}
}

func TestLoadOrDefaultReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
timezone = "UTC"
api_token = "secret"
default_limit = 50
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("timezone = %q, want UTC", cfg.Timezone)
	}
	if cfg.APIToken != "secret" {
		t.Errorf("api_token = %q, want secret", cfg.APIToken)
	}
	if cfg.DefaultLimit != 50 {
		t.Errorf("default_limit = %d, want 50", cfg.DefaultLimit)
	}
	// Unset fields keep their defaults.
	if cfg.ListenAddr != "127.0.0.1:8080" {
		t.Errorf("listen_addr = %q, want default", cfg.ListenAddr)
	}
}

func TestLoadOrDefaultMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("timezone = ["), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadOrDefault(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestLoadOrDefaultBadTimezone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`timezone = "Mars/Olympus"`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadOrDefault(path); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestLocation(t *testing.T) {
	cfg := Config{Timezone: "Local"}
	loc, err := cfg.Location()
	if err != nil || loc == nil {
		t.Errorf("Local should resolve, got %v, %v", loc, err)
	}

	cfg.Timezone = "America/Chicago"
	loc, err = cfg.Location()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.String() != "America/Chicago" {
		t.Errorf("location = %q, want America/Chicago", loc)
	}
}

func TestGenerateSampleConfigParses(t *testing.T) {
	sample := GenerateSampleConfig()

	var cfg Config
	if err := toml.Unmarshal([]byte(sample), &cfg); err != nil {
		t.Fatalf("sample config must parse: %v", err)
	}
	if !strings.Contains(sample, "timezone") {
		t.Error("sample config should mention timezone")
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"tally/internal/osutil"
)

const (
	// AppName is the application name used for config directory
	AppName = "tally"
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
)

// DefaultLimit is the default maximum number of entries a listing returns
const DefaultLimit = 500

// Config represents the application configuration
type Config struct {
	// Timezone is the IANA timezone all timestamps are recorded in
	// (e.g. "America/Chicago"). "Local" uses the system timezone.
	Timezone string `toml:"timezone"`
	// DatabasePath overrides the default SQLite database location
	DatabasePath string `toml:"database_path"`
	// RosterPath overrides the default roster.json location
	RosterPath string `toml:"roster_path"`
	// ClientsPath overrides the default clients.json location
	ClientsPath string `toml:"clients_path"`
	// APIToken guards the HTTP API; empty means no authentication
	APIToken string `toml:"api_token"`
	// ListenAddr is the HTTP API bind address for the serve command
	ListenAddr string `toml:"listen_addr"`
	// DefaultLimit caps listing output when the caller does not set one
	DefaultLimit int `toml:"default_limit"`
}

// DefaultConfig returns a Config with sensible defaults.
// - timezone: "America/Chicago" (the billing timezone entries have always
//   been recorded in; changing it changes how date bounds bucket entries)
// - listen_addr: "127.0.0.1:8080"
// - default_limit: 500
func DefaultConfig() Config {
	return Config{
		Timezone:     "America/Chicago",
		ListenAddr:   "127.0.0.1:8080",
		DefaultLimit: DefaultLimit,
	}
}

// GetConfigPath returns the path to the config file.
// Uses os.UserConfigDir() for cross-platform XDG-compliant config directory.
// Creates the config directory if it doesn't exist.
func GetConfigPath() (string, error) {
	configDir, err := osutil.Provider.UserConfigDir()
	if err != nil {
		return "", err
	}

	appDir := filepath.Join(configDir, AppName)

	if err := osutil.Provider.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, ConfigFile), nil
}

// LoadOrDefault reads the config file at path, filling any unset fields with
// defaults. A missing file yields the defaults without error; a malformed
// file is an error.
func LoadOrDefault(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Normalize fills empty fields with their defaults
func (c *Config) Normalize() {
	defaults := DefaultConfig()
	if c.Timezone == "" {
		c.Timezone = defaults.Timezone
	}
	if c.ListenAddr == "" {
		c.ListenAddr = defaults.ListenAddr
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = defaults.DefaultLimit
	}
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured timezone
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GenerateSampleConfig returns a commented sample config file
func GenerateSampleConfig() string {
	return `# tally configuration

# IANA timezone all timestamps are recorded in. "Local" uses the system zone.
timezone = "America/Chicago"

# Override storage locations (defaults live in the user config directory).
# database_path = "/path/to/data.db"
# roster_path = "/path/to/roster.json"
# clients_path = "/path/to/clients.json"

# Bearer token for the HTTP API. Leave empty to disable authentication.
# api_token = ""

# HTTP API bind address for 'tally serve'.
listen_addr = "127.0.0.1:8080"

# Default maximum number of entries a listing returns.
default_limit = 500
`
}

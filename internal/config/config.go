// Package config loads flightlog settings from ~/.flightlog/config.toml,
// built-in defaults and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/Tiliavir/flightlog/internal/storage"
)

// Config is the root configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Logbook LogbookConfig `toml:"logbook"`
	Log     LogConfig     `toml:"log"`
	Outlook OutlookConfig `toml:"outlook"`

	// Dir is the data directory the config was loaded for. Not read from file.
	Dir string `toml:"-"`
}

// StorageConfig selects where flights and the aircraft are kept.
type StorageConfig struct {
	// Backend is "sqlite" or "json".
	Backend string `toml:"backend"`
	// Path overrides the data file. Empty means a file inside the data directory.
	Path string `toml:"path"`
}

// LogbookConfig holds entry defaults.
type LogbookConfig struct {
	DefaultPilot string `toml:"default_pilot"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Debug bool `toml:"debug"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar publishing settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `toml:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `toml:"client_id"`
	// Category is the Outlook category attached to published flight events.
	Category string `toml:"category"`
	// Timezone is the IANA timezone of the all-day events. Empty = UTC.
	Timezone string `toml:"timezone"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant.
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID, which supports
	// device code flow without a client secret or app registration.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultCategory is the Outlook category for published flights.
	DefaultCategory = "Flight log"
)

// Default returns a Config pre-filled with the built-in defaults for dir.
func Default(dir string) *Config {
	return &Config{
		Storage: StorageConfig{Backend: storage.BackendSQLite},
		Outlook: OutlookConfig{
			TenantID: DefaultTenantID,
			ClientID: DefaultClientID,
			Category: DefaultCategory,
		},
		Dir: dir,
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# flightlog configuration
#
# All settings are optional; the defaults below work out of the box.

[storage]
# "sqlite" (default) keeps flights in flightlog.db,
# "json" keeps them in a human-readable logbook.json.
backend = "sqlite"
# Override the data file location. Leave empty for the data directory.
path = ""

[logbook]
# Pilot name used by "flightlog add" when --pilot is not given.
default_pilot = ""

[log]
# Log debug details to logs/flightlog.log and stderr.
debug = false

[outlook]
# Azure AD tenant ID: "common" for personal Microsoft accounts and most organisations.
tenant_id = "common"
# Azure application (client) ID used for the OAuth2 device code flow.
# The built-in value is the public Azure CLI app; no app registration needed.
client_id = "04b07795-8542-4c4a-95af-30b2c573d5ab"
# Outlook category attached to published flights.
category = "Flight log"
# IANA timezone for the published all-day events, e.g. "Europe/Berlin". Empty = UTC.
timezone = ""
`

// HomeDir returns the data directory: $FLIGHTLOG_HOME, or ~/.flightlog.
func HomeDir() (string, error) {
	if v := os.Getenv("FLIGHTLOG_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".flightlog"), nil
}

// FilePath returns the config file inside dir.
func FilePath(dir string) string {
	return filepath.Join(dir, "config.toml")
}

// Load reads the config for the default data directory.
func Load() (*Config, error) {
	dir, err := HomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(FilePath(dir), dir)
}

// LoadFrom starts with defaults, overlays the file at path, then applies
// environment overrides. A missing file is created from the annotated
// template so users can discover the options.
func LoadFrom(path, dir string) (*Config, error) {
	cfg := Default(dir)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	applyEnvOverrides(cfg)
	fillDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FLIGHTLOG_STORAGE"); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("FLIGHTLOG_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("FLIGHTLOG_PILOT"); v != "" {
		cfg.Logbook.DefaultPilot = v
	}
	if v := os.Getenv("FLIGHTLOG_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Debug = b
		}
	}
}

// fillDefaults replaces zero-value fields a partial file left empty.
func fillDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = storage.BackendSQLite
	}
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = DefaultTenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = DefaultClientID
	}
	if cfg.Outlook.Category == "" {
		cfg.Outlook.Category = DefaultCategory
	}
	cfg.Storage.Path = expandPath(cfg.Storage.Path)
}

// Validate checks the config for unusable values.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendSQLite, storage.BackendJSON:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", storage.BackendSQLite, storage.BackendJSON, c.Storage.Backend)
	}
	return nil
}

// DataPath returns the data file for the configured backend.
func (c *Config) DataPath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(c.Dir, storage.FileName(c.Storage.Backend))
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// writeDefault creates the config directory and writes the annotated template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

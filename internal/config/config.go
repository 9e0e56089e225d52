// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for paperless-export.
//
// Configuration is a TOML file with environment variable overrides and
// validation. Locations, in order of precedence:
//   - path given on the command line (--config)
//   - ~/.paperless-export/config.toml
//   - built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete paperless-export configuration.
type Config struct {
	Paperless PaperlessConfig `toml:"paperless"`
	Export    ExportConfig    `toml:"export"`
	Locale    LocaleConfig    `toml:"locale"`
	History   HistoryConfig   `toml:"history"`
	Upload    UploadConfig    `toml:"upload"`
}

// PaperlessConfig addresses the remote Paperless-ngx service.
type PaperlessConfig struct {
	// URL is the API base URL, e.g. https://paperless.example.com/api
	URL string `toml:"url"`
	// Token is the API token. Keep the config file private; Save enforces
	// 0600 because of this field.
	Token string `toml:"token"`
	// TimeoutSecs is the per-request timeout (default: 30).
	TimeoutSecs int `toml:"timeout_secs"`
	// RequestsPerSecond throttles API calls when > 0 (default: off).
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ExportConfig controls where and what to export.
type ExportConfig struct {
	// Directory is the export root. The tag-scoped directory created under
	// it is purged at the start of every run, so do not point this at a
	// directory holding anything you want to keep.
	Directory string `toml:"directory"`
	// Tag is the tag name whose documents are exported.
	Tag string `toml:"tag"`
}

// LocaleConfig carries explicit formatting configuration, replacing any
// process-wide locale state.
type LocaleConfig struct {
	// Currency is a BCP-47 tag used for monetary rendering (default: "de").
	Currency string `toml:"currency"`
}

// HistoryConfig controls the local run-history store.
type HistoryConfig struct {
	// Enabled records each run in a local SQLite database (default: true).
	Enabled bool `toml:"enabled"`
	// Path overrides the database location (default: <config dir>/history.db).
	Path string `toml:"path"`
}

// UploadConfig optionally mirrors the finished export directory to an
// S3-compatible object store. Disabled unless an endpoint is set.
type UploadConfig struct {
	Enabled   bool   `toml:"enabled"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
	// Prefix is prepended to object names (default: the export directory name).
	Prefix string `toml:"prefix"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Paperless: PaperlessConfig{
			TimeoutSecs: 30,
		},
		Export: ExportConfig{
			Directory: ".",
		},
		Locale: LocaleConfig{
			Currency: "de",
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Upload: UploadConfig{
			UseSSL: true,
		},
	}
}

// ConfigDir returns the application config directory (~/.paperless-export).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".paperless-export"), nil
}

// ConfigPath returns the default config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryPath returns the effective history database path.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load loads configuration from path, or from the default location when
// path is empty. A missing default file is not an error; defaults plus
// environment overrides are returned. Environment overrides are applied
// last in every case.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := loadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if explicit {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg.ApplyEnvOverrides()
	cfg.setDefaults()
	return cfg, nil
}

func loadTOML(cfg *Config, path string) error {
	// The file carries the API token; quietly tighten permissive modes.
	if info, err := os.Stat(path); err == nil && info.Mode().Perm() != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not fix permissions on %s: %v\n", path, err)
		}
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("PAPERLESS_URL"); v != "" {
		c.Paperless.URL = v
	}
	if v := os.Getenv("PAPERLESS_TOKEN"); v != "" {
		c.Paperless.Token = v
	}
	if v := os.Getenv("PAPERLESS_EXPORT_DIR"); v != "" {
		c.Export.Directory = v
	}
	if v := os.Getenv("PAPERLESS_TAG"); v != "" {
		c.Export.Tag = v
	}
}

func (c *Config) setDefaults() {
	if c.Paperless.TimeoutSecs <= 0 {
		c.Paperless.TimeoutSecs = 30
	}
	if c.Locale.Currency == "" {
		c.Locale.Currency = "de"
	}
	if c.Export.Directory == "" {
		c.Export.Directory = "."
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateErrors aggregates all validation failures so the user sees every
// problem at once.
type ValidateErrors []string

func (e ValidateErrors) Error() string {
	return "invalid configuration:\n  - " + strings.Join(e, "\n  - ")
}

// Validate checks everything an export run needs. It is called before a run,
// not at load time, so read-only commands work on an incomplete config.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Paperless.URL == "" {
		errs = append(errs, "paperless.url is required")
	} else if u, err := url.Parse(c.Paperless.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Sprintf("paperless.url is not a valid http(s) URL: %q", c.Paperless.URL))
	}
	if c.Paperless.Token == "" {
		errs = append(errs, "paperless.token is required")
	}
	if c.Export.Tag == "" {
		errs = append(errs, "export.tag is required")
	}
	if c.Upload.Enabled {
		if c.Upload.Endpoint == "" {
			errs = append(errs, "upload.endpoint is required when upload is enabled")
		}
		if c.Upload.Bucket == "" {
			errs = append(errs, "upload.bucket is required when upload is enabled")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default location with owner-only
// permissions.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path as TOML, mode 0600.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

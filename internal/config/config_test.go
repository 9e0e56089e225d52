// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Paperless.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want 30", cfg.Paperless.TimeoutSecs)
	}
	if cfg.Export.Directory != "." {
		t.Errorf("Export.Directory = %q, want %q", cfg.Export.Directory, ".")
	}
	if cfg.Locale.Currency != "de" {
		t.Errorf("Locale.Currency = %q, want %q", cfg.Locale.Currency, "de")
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true")
	}
	if !cfg.Upload.UseSSL {
		t.Error("Upload.UseSSL = false, want true")
	}
	if cfg.Upload.Enabled {
		t.Error("Upload.Enabled = true, want false")
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paperless]
url = "https://paperless.example.com/api"
token = "secret-token"
timeout_secs = 10

[export]
directory = "/tmp/exports"
tag = "Invoices"

[locale]
currency = "en"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Paperless.URL != "https://paperless.example.com/api" {
		t.Errorf("URL = %q", cfg.Paperless.URL)
	}
	if cfg.Paperless.TimeoutSecs != 10 {
		t.Errorf("TimeoutSecs = %d, want 10", cfg.Paperless.TimeoutSecs)
	}
	if cfg.Export.Tag != "Invoices" {
		t.Errorf("Tag = %q, want Invoices", cfg.Export.Tag)
	}
	if cfg.Locale.Currency != "en" {
		t.Errorf("Currency = %q, want en", cfg.Locale.Currency)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[paperless]\nurl = \"http://x\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Paperless.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want default 30", cfg.Paperless.TimeoutSecs)
	}
	if cfg.Locale.Currency != "de" {
		t.Errorf("Currency = %q, want default de", cfg.Locale.Currency)
	}
}

func TestLoad_TightensPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[paperless]\ntoken = \"s\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %o, want 0600", info.Mode().Perm())
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PAPERLESS_URL", "http://env.example.com/api")
	t.Setenv("PAPERLESS_TOKEN", "env-token")
	t.Setenv("PAPERLESS_TAG", "Receipts")

	cfg := Default()
	cfg.Paperless.URL = "http://file.example.com/api"
	cfg.ApplyEnvOverrides()

	if cfg.Paperless.URL != "http://env.example.com/api" {
		t.Errorf("URL = %q, env should win", cfg.Paperless.URL)
	}
	if cfg.Paperless.Token != "env-token" {
		t.Errorf("Token = %q", cfg.Paperless.Token)
	}
	if cfg.Export.Tag != "Receipts" {
		t.Errorf("Tag = %q", cfg.Export.Tag)
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Paperless.URL = "https://paperless.example.com/api"
	valid.Paperless.Token = "t"
	valid.Export.Tag = "Invoices"
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() on complete config = %v", err)
	}

	empty := Default()
	err := empty.Validate()
	if err == nil {
		t.Fatal("Validate() on empty config should fail")
	}
	msg := err.Error()
	for _, want := range []string{"paperless.url", "paperless.token", "export.tag"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing mention of %s", msg, want)
		}
	}

	badURL := Default()
	badURL.Paperless.URL = "ftp://nope"
	badURL.Paperless.Token = "t"
	badURL.Export.Tag = "x"
	if err := badURL.Validate(); err == nil {
		t.Error("non-http scheme should fail validation")
	}

	upload := Default()
	upload.Paperless.URL = "http://x"
	upload.Paperless.Token = "t"
	upload.Export.Tag = "x"
	upload.Upload.Enabled = true
	err = upload.Validate()
	if err == nil || !strings.Contains(err.Error(), "upload.endpoint") {
		t.Errorf("enabled upload without endpoint should fail, got %v", err)
	}
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Paperless.URL = "https://paperless.example.com/api"
	cfg.Paperless.Token = "secret"
	cfg.Export.Tag = "Invoices"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %o, want 0600", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Paperless.Token != "secret" || loaded.Export.Tag != "Invoices" {
		t.Errorf("round trip lost values: %+v", loaded.Paperless)
	}
}

func TestHistoryPath_Override(t *testing.T) {
	cfg := Default()
	cfg.History.Path = "/var/lib/pe/history.db"

	path, err := cfg.HistoryPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != "/var/lib/pe/history.db" {
		t.Errorf("HistoryPath = %q", path)
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL == "" {
		t.Error("default base URL should not be empty")
	}
	if cfg.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", cfg.Timeout(), DefaultTimeout)
	}
	if cfg.Chat.GuestHistoryLimit != DefaultGuestHistoryLimit {
		t.Errorf("GuestHistoryLimit = %d, want %d", cfg.Chat.GuestHistoryLimit, DefaultGuestHistoryLimit)
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
}

func TestLoadFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1"

[api]
base_url = "http://localhost:8000/api/v1/"
timeout_secs = 10

[chat]
guest_history_limit = 6
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	// Trailing slash is trimmed during validation
	if cfg.API.BaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("Timeout() = %v, want 10s", cfg.Timeout())
	}
	if cfg.Chat.GuestHistoryLimit != 6 {
		t.Errorf("GuestHistoryLimit = %d, want 6", cfg.Chat.GuestHistoryLimit)
	}
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("QUIZBOT_API_URL", "https://staging.example.com/api/v1/")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.API.BaseURL != "https://staging.example.com/api/v1" {
		t.Errorf("BaseURL = %q, want env override", cfg.API.BaseURL)
	}
}

func TestValidate_Clamps(t *testing.T) {
	cfg := Default()
	cfg.API.TimeoutSecs = -5
	cfg.Chat.GuestHistoryLimit = -1
	cfg.UI.SidebarWidth = 3

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.API.TimeoutSecs <= 0 {
		t.Error("timeout should be clamped to a positive value")
	}
	if cfg.Chat.GuestHistoryLimit != 0 {
		t.Error("negative history limit should clamp to 0")
	}
	if cfg.UI.SidebarWidth != DefaultSidebarWidth {
		t.Error("tiny sidebar width should reset to default")
	}
}

func TestValidate_RejectsBadURL(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid base URL")
	}

	cfg.API.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty base URL")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "http://localhost:9999/api/v1"
	cfg.Chat.GuestHistoryLimit = 12

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.API.BaseURL != cfg.API.BaseURL {
		t.Errorf("BaseURL = %q, want %q", loaded.API.BaseURL, cfg.API.BaseURL)
	}
	if loaded.Chat.GuestHistoryLimit != 12 {
		t.Errorf("GuestHistoryLimit = %d, want 12", loaded.Chat.GuestHistoryLimit)
	}
}

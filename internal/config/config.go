// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for quizbot.
//
// Configuration is read from ~/.quizbot/config.toml with built-in defaults
// and environment variable overrides. Precedence, highest first:
//
//   - Environment variables (QUIZBOT_API_URL)
//   - ~/.quizbot/config.toml
//   - Built-in defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/quizbot-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete quizbot configuration.
type Config struct {
	Version string `toml:"version"`

	// API holds backend connection settings.
	API APIConfig `toml:"api"`

	// Chat holds conversation behavior settings.
	Chat ChatConfig `toml:"chat"`

	// UI holds terminal interface settings.
	UI UIConfig `toml:"ui"`
}

// APIConfig contains backend connection configuration.
type APIConfig struct {
	// BaseURL is the backend API root, including the version prefix.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
}

// ChatConfig contains conversation behavior configuration.
type ChatConfig struct {
	// GuestHistoryLimit caps how many transcript messages are resent as
	// context on each guest turn. The backend accepts unbounded history;
	// the cap keeps request sizes from growing without limit. 0 disables
	// the cap.
	GuestHistoryLimit int `toml:"guest_history_limit"`
}

// UIConfig contains terminal interface configuration.
type UIConfig struct {
	// ShowTimestamps renders message timestamps in the transcript.
	ShowTimestamps bool `toml:"show_timestamps"`
	// SidebarWidth is the sidebar pane width in columns.
	SidebarWidth int `toml:"sidebar_width"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultBaseURL points at the hosted Quizbot backend.
	DefaultBaseURL = "https://quizbot-backend-795951427566.us-central1.run.app/api/v1"

	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultGuestHistoryLimit caps resent guest history at 40 messages.
	DefaultGuestHistoryLimit = 40

	// DefaultSidebarWidth is the sidebar pane width in columns.
	DefaultSidebarWidth = 28
)

// Default returns a configuration populated with built-in defaults.
func Default() *Config {
	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:     DefaultBaseURL,
			TimeoutSecs: int(DefaultTimeout.Seconds()),
		},
		Chat: ChatConfig{
			GuestHistoryLimit: DefaultGuestHistoryLimit,
		},
		UI: UIConfig{
			ShowTimestamps: false,
			SidebarWidth:   DefaultSidebarWidth,
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

var (
	globalConfig *Config
	globalOnce   sync.Once
)

// Global returns the process-wide configuration, loading it on first use.
// Load failures fall back to defaults; the TUI has no good place to
// surface a config parse error at startup, so it is reported on stderr.
func Global() *Config {
	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load config: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})
	return globalConfig
}

// Load reads configuration from the default path, applying defaults and
// environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file: defaults + env only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variables over file values.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("QUIZBOT_API_URL")); v != "" {
		cfg.API.BaseURL = strings.TrimSuffix(v, "/")
	}
}

// DefaultPath returns ~/.quizbot/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".quizbot", "config.toml")
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration and clamps out-of-range values.
func (c *Config) Validate() error {
	c.API.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		return errors.New("api.base_url must not be empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("api.base_url %q is not a valid http(s) URL", c.API.BaseURL)
	}

	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = int(DefaultTimeout.Seconds())
	}
	if c.Chat.GuestHistoryLimit < 0 {
		c.Chat.GuestHistoryLimit = 0
	}
	if c.UI.SidebarWidth < 20 {
		c.UI.SidebarWidth = DefaultSidebarWidth
	}
	return nil
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default path atomically.
func (c *Config) Save() error {
	return c.SaveTo(DefaultPath())
}

// SaveTo writes the configuration to an explicit path atomically.
func (c *Config) SaveTo(path string) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0o644)
}

// Package config provides configuration types, defaults, and persistence for
// enroll.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/mergington/enroll/internal/tracing"
)

// UIConfig holds user interface options.
type UIConfig struct {
	// MarkdownDescriptions renders activity descriptions through glamour.
	MarkdownDescriptions bool `mapstructure:"markdown_descriptions"`

	// ShowStatusBar toggles the bottom status bar in the TUI.
	ShowStatusBar bool `mapstructure:"show_status_bar"`

	// MarkdownStyle is "dark" (default) or "light".
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// Config holds all configuration options for enroll.
type Config struct {
	// ServerURL is the activities backend address.
	ServerURL string `mapstructure:"server_url"`

	// Email is the default address prefilled in the signup form.
	// Updated after each successful signup.
	Email string `mapstructure:"email"`

	// Timeout bounds every backend request.
	Timeout time.Duration `mapstructure:"timeout"`

	// AutoReload re-reads this config file (and refreshes the roster) when
	// the file changes on disk.
	AutoReload bool `mapstructure:"auto_reload"`

	UI      UIConfig       `mapstructure:"ui"`
	Tracing tracing.Config `mapstructure:"tracing"`

	// Flags holds feature flags (see internal/flags).
	Flags map[string]bool `mapstructure:"flags"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		ServerURL:  "http://localhost:8000",
		Email:      "",
		Timeout:    10 * time.Second,
		AutoReload: true,
		UI: UIConfig{
			MarkdownDescriptions: true,
			ShowStatusBar:        true,
			MarkdownStyle:        "dark",
		},
		Tracing: tracing.DefaultConfig(),
		Flags: map[string]bool{
			"strict-capacity": false,
			"mouse-support":   true,
		},
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server_url %q: %w", c.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server_url must be http or https, got %q", c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("server_url %q has no host", c.ServerURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// Package config provides configuration management for sync2canvas.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the sync2canvas configuration. Session cookies and the
// Slack token usually come from the environment rather than the file.
type Config struct {
	URL             string `yaml:"url"`
	AWSELBCookie    string `yaml:"awselb_cookie,omitempty"`
	SeraphCookie    string `yaml:"seraph_cookie,omitempty"`
	SlackToken      string `yaml:"slack_token,omitempty"`
	IssueBaseURL    string `yaml:"issue_base_url,omitempty"`
	CalloutStyle    string `yaml:"callout_style,omitempty"`
	MaxHeadingLevel int    `yaml:"max_heading_level,omitempty"`
	OutputDir       string `yaml:"output_dir,omitempty"`
}

// Validate checks that the fields every command needs are present and valid.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("url is required")
	}
	if !strings.HasPrefix(c.URL, "https://") {
		return errors.New("url must use https")
	}
	if c.CalloutStyle != "" && c.CalloutStyle != "quote" && c.CalloutStyle != "markers" {
		return fmt.Errorf("callout_style must be %q or %q", "quote", "markers")
	}
	return nil
}

// ValidateSession checks that the Confluence session cookies are set.
func (c *Config) ValidateSession() error {
	if c.AWSELBCookie == "" {
		return errors.New("AWSELB cookie is required (set SYNC2CANVAS_AWSELB_COOKIE)")
	}
	if c.SeraphCookie == "" {
		return errors.New("seraph cookie is required (set SYNC2CANVAS_SERAPH_COOKIE)")
	}
	return nil
}

// LoadFromEnv overrides configuration from environment variables.
// Precedence: SYNC2CANVAS_* → legacy names → existing config value.
func (c *Config) LoadFromEnv() {
	if url := os.Getenv("SYNC2CANVAS_URL"); url != "" {
		c.URL = url
	}
	if v := getEnvWithFallback("SYNC2CANVAS_AWSELB_COOKIE", "AWSELB_COOKIE"); v != "" {
		c.AWSELBCookie = v
	}
	if v := getEnvWithFallback("SYNC2CANVAS_SERAPH_COOKIE", "SERAPH_COOKIE"); v != "" {
		c.SeraphCookie = v
	}
	if v := getEnvWithFallback("SYNC2CANVAS_SLACK_TOKEN", "SLACK_BOT_TOKEN"); v != "" {
		c.SlackToken = v
	}
	if v := os.Getenv("SYNC2CANVAS_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
}

// getEnvWithFallback returns the value of the primary env var, or the fallback if primary is empty.
func getEnvWithFallback(primary, fallback string) string {
	if v := os.Getenv(primary); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "sync2canvas", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".sync2canvas", "config.yml")
	}

	return filepath.Join(home, ".config", "sync2canvas", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Cookies and token may be stored here; keep it user-only.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}

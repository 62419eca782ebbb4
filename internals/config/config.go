// Package config loads triage settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const defaultLabelCacheTTL = 10 * time.Minute

// Config represents the configuration stored in config.toml.
type Config struct {
	GitHubToken   string       `toml:"github_token"`
	GitLabToken   string       `toml:"gitlab_token"`
	GitLabBaseURL string       `toml:"gitlab_base_url"`
	Log           LogConfig    `toml:"log"`
	Labels        LabelsConfig `toml:"labels"`
	Slack         SlackConfig  `toml:"slack"`
}

type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error". Defaults to "info".
	Level string `toml:"level"`
	// File receives the log output. The TUI owns the terminal, so logs never
	// go to stdout. Defaults to triage.log under the user state directory.
	File string `toml:"file"`
}

type LabelsConfig struct {
	// CacheTTL is how long a fetched label collection is reused, as a Go
	// duration string ("10m", "1h"). Defaults to 10 minutes.
	CacheTTL string `toml:"cache_ttl"`
}

type SlackConfig struct {
	BotToken string `toml:"bot_token"`
	// Channel is the channel ID issue activity is posted to, e.g. "C01234ABCDE".
	Channel string `toml:"channel"`
}

// SlackEnabled reports whether both a bot token and a channel are set.
func (c *Config) SlackEnabled() bool {
	return c.Slack.BotToken != "" && c.Slack.Channel != ""
}

// LabelCacheTTL returns the configured label cache lifetime. Invalid or
// non-positive values fall back to the default.
func (c *Config) LabelCacheTTL() time.Duration {
	if c.Labels.CacheTTL == "" {
		return defaultLabelCacheTTL
	}
	d, err := time.ParseDuration(c.Labels.CacheTTL)
	if err != nil || d <= 0 {
		return defaultLabelCacheTTL
	}
	return d
}

// LogLevel parses Log.Level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/triage/config.toml or its platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "triage", "config.toml"), nil
}

func defaultLogFile() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "triage", "triage.log")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "triage", "triage.log")
	}
	return filepath.Join(os.TempDir(), "triage.log")
}

// Load reads path, then applies environment overrides. A missing file is
// not an error; the environment alone can configure triage.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogFile()
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"GITHUB_TOKEN", &c.GitHubToken},
		{"GITLAB_TOKEN", &c.GitLabToken},
		{"GITLAB_BASE_URL", &c.GitLabBaseURL},
		{"SLACK_BOT_TOKEN", &c.Slack.BotToken},
		{"SLACK_NOTIFY_CHANNEL", &c.Slack.Channel},
		{"TRIAGE_LOG_LEVEL", &c.Log.Level},
		{"TRIAGE_LOG_FILE", &c.Log.File},
	}
	for _, o := range overrides {
		if v := getenv(o.key); v != "" {
			*o.dst = v
		}
	}
}

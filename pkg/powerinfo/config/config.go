package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/logging"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// ReportConfig selects the settings shown by the default report.
type ReportConfig struct {
	Match   []string `mapstructure:"match"`
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
	Schemes []string `mapstructure:"schemes"`
	Sort    string   `mapstructure:"sort"`
	Limit   int      `mapstructure:"limit"`
}

// HistoryConfig configures the set-operation journal.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// SnapshotConfig configures the snapshot store.
type SnapshotConfig struct {
	Path string `mapstructure:"path"`
}

// ApplyConfig configures plan application.
type ApplyConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config represents the application configuration.
type Config struct {
	Output   string         `mapstructure:"output"`
	Backend  string         `mapstructure:"backend"`
	Fixture  string         `mapstructure:"fixture"`
	Report   ReportConfig   `mapstructure:"report"`
	History  HistoryConfig  `mapstructure:"history"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Apply    ApplyConfig    `mapstructure:"apply"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Load loads configuration from the default file locations and environment
// variables. Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/powerinfo/config.yaml
//   - $HOME/.config/powerinfo/config.yaml
//
// Environment variables are prefixed with POWERINFO_ (e.g., POWERINFO_BACKEND).
func Load() (*Config, error) {
	return LoadWith(viper.New(), "")
}

// LoadWith is Load on a caller-supplied viper instance, typically one with
// command-line flags already bound. A non-empty file replaces the search paths.
func LoadWith(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("POWERINFO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	for _, p := range []*string{&cfg.Fixture, &cfg.History.Path, &cfg.Snapshot.Path, &cfg.Logging.Path} {
		expanded, err := ExpandPath(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("backend", DefaultBackend)
	v.SetDefault("fixture", "")

	v.SetDefault("report.match", DefaultMatch)
	v.SetDefault("report.include", []string{})
	v.SetDefault("report.exclude", []string{})
	v.SetDefault("report.schemes", []string{})
	v.SetDefault("report.sort", DefaultSort)
	v.SetDefault("report.limit", 0)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", DefaultHistoryDir())
	v.SetDefault("history.retention_days", DefaultRetentionDays)

	v.SetDefault("snapshot.path", DefaultSnapshotDir())

	v.SetDefault("apply.debounce", DefaultDebounce)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.components", map[string]string{
		"scheme": "info",
		"plan":   "info",
		"tui":    "info",
	})
}

// LoggingOptions converts the logging section into logging.Config.
// consoleLevel is passed through unchanged; empty disables console output.
func (c *Config) LoggingOptions(consoleLevel string, tui bool) (logging.Config, error) {
	var maxSize int64
	if c.Logging.Rotation.MaxSize != "" {
		n, err := humanize.ParseBytes(c.Logging.Rotation.MaxSize)
		if err != nil {
			return logging.Config{}, fmt.Errorf("invalid logging.rotation.max_size %q: %w", c.Logging.Rotation.MaxSize, err)
		}
		maxSize = int64(n)
	}

	return logging.Config{
		Level: c.Logging.Level,
		Path:  c.Logging.Path,
		Rotation: logging.RotationConfig{
			MaxSize:    maxSize,
			MaxBackups: c.Logging.Rotation.MaxBackups,
			MaxAge:     c.Logging.Rotation.MaxAge,
		},
		Components:   c.Logging.Components,
		ConsoleLevel: consoleLevel,
		TUIMode:      tui,
	}, nil
}

// Retention returns the history retention period.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.History.RetentionDays) * 24 * time.Hour
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "powerinfo"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "powerinfo"), nil
}

// ConfigPath returns the path of the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DataDir returns $XDG_DATA_HOME/powerinfo/.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "powerinfo")
}

// StateDir returns $XDG_STATE_HOME/powerinfo/.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "powerinfo")
}

// DefaultHistoryDir returns the directory holding history entries.
func DefaultHistoryDir() string {
	return filepath.Join(StateDir(), "history")
}

// DefaultSnapshotDir returns the snapshot database directory.
func DefaultSnapshotDir() string {
	return filepath.Join(DataDir(), "snapshots")
}

// WriteDefault writes a default config file to path if none exists.
// An empty path selects ConfigPath(). It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return false, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfig()), 0o644); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}
	return true, nil
}

func defaultConfig() string {
	var match strings.Builder
	for _, m := range DefaultMatch {
		fmt.Fprintf(&match, "    - %s\n", m)
	}

	return fmt.Sprintf(`# powerinfo configuration

# Output format: plain, pretty, json, jsonl, yaml, tsv, csv, markdown, template
output: %s

# Power configuration backend: native or memory
backend: %s

# YAML or TOML fixture for the memory backend (empty uses the built-in one)
fixture: ""

# Settings shown by the default report
report:
  # Case-insensitive substrings of the setting name
  match:
%s  # Glob patterns on the setting name
  include: []
  exclude: []
  # Restrict to these scheme names (empty means all)
  schemes: []
  # Sort settings: none, name, subgroup
  sort: %s
  # Maximum settings per scheme (0 means unlimited)
  limit: 0

# Journal of Set operations
history:
  enabled: true
  path: %s
  retention_days: %d

# Snapshot database
snapshot:
  path: %s

# Plan application
apply:
  debounce: %s

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/powerinfo/powerinfo.log)
  path: ""
  rotation:
    max_size: %s
    max_age: 30       # days
    max_backups: 3
  # Per-component log levels
  components:
    scheme: info
    plan: info
    tui: info
`, DefaultOutput, DefaultBackend, match.String(), DefaultSort,
		DefaultHistoryDir(), DefaultRetentionDays, DefaultSnapshotDir(),
		DefaultDebounce, DefaultLogMaxSize)
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

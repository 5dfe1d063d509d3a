package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	return home
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultBackend, cfg.Backend)
	assert.Empty(t, cfg.Fixture)
	assert.Equal(t, DefaultMatch, cfg.Report.Match)
	assert.Equal(t, DefaultSort, cfg.Report.Sort)
	assert.Zero(t, cfg.Report.Limit)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, DefaultRetentionDays, cfg.History.RetentionDays)
	assert.Equal(t, DefaultHistoryDir(), cfg.History.Path)
	assert.Equal(t, DefaultSnapshotDir(), cfg.Snapshot.Path)
	assert.Equal(t, DefaultDebounce, cfg.Apply.Debounce)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, DefaultLogMaxSize, cfg.Logging.Rotation.MaxSize)
}

func TestLoad_FromFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "powerinfo")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	content := `
output: json
backend: memory
fixture: ~/plans/fixture.yaml
report:
  match: [processor state]
  exclude: ["*minimum*"]
  schemes: [Balanced]
  sort: name
  limit: 4
history:
  enabled: false
  retention_days: 7
apply:
  debounce: 2s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "memory", cfg.Backend)
	assert.Equal(t, filepath.Join(home, "plans", "fixture.yaml"), cfg.Fixture)
	assert.Equal(t, []string{"processor state"}, cfg.Report.Match)
	assert.Equal(t, []string{"*minimum*"}, cfg.Report.Exclude)
	assert.Equal(t, []string{"Balanced"}, cfg.Report.Schemes)
	assert.Equal(t, "name", cfg.Report.Sort)
	assert.Equal(t, 4, cfg.Report.Limit)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 7, cfg.History.RetentionDays)
	assert.Equal(t, 2*time.Second, cfg.Apply.Debounce)
	assert.Equal(t, 7*24*time.Hour, cfg.Retention())
}

func TestLoad_XDGConfigHome(t *testing.T) {
	isolate(t)
	xdgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdgHome)

	dir := filepath.Join(xdgHome, "powerinfo")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output: yaml\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output)
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("POWERINFO_BACKEND", "memory")
	t.Setenv("POWERINFO_REPORT_LIMIT", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Backend)
	assert.Equal(t, 2, cfg.Report.Limit)
}

func TestLoadWith_ExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: csv\n"), 0o644))

	cfg, err := LoadWith(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Output)
}

func TestLoadWith_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := LoadWith(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "powerinfo")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output: [unclosed\n"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoggingOptions(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	require.NoError(t, err)

	opts, err := cfg.LoggingOptions("debug", false)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000), opts.Rotation.MaxSize)
	assert.Equal(t, 3, opts.Rotation.MaxBackups)
	assert.Equal(t, "debug", opts.ConsoleLevel)
	assert.False(t, opts.TUIMode)

	cfg.Logging.Rotation.MaxSize = "lots"
	_, err = cfg.LoggingOptions("", false)
	assert.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	home := isolate(t)

	written, err := WriteDefault("")
	require.NoError(t, err)
	assert.True(t, written)

	path := filepath.Join(home, ".config", "powerinfo", "config.yaml")
	assert.FileExists(t, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultMatch, cfg.Report.Match)
	assert.Equal(t, DefaultDebounce, cfg.Apply.Debounce)

	written, err = WriteDefault("")
	require.NoError(t, err)
	assert.False(t, written, "existing file must not be overwritten")
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)

	got, err := ExpandPath("~/x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x"), got)

	got, err = ExpandPath("/abs")
	require.NoError(t, err)
	assert.Equal(t, "/abs", got)
}

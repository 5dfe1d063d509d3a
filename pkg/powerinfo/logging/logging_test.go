package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    logging.Level
		wantErr bool
	}{
		{in: "debug", want: logging.LevelDebug},
		{in: "INFO", want: logging.LevelInfo},
		{in: "", want: logging.LevelInfo},
		{in: "warning", want: logging.LevelWarn},
		{in: "warn", want: logging.LevelWarn},
		{in: "error", want: logging.LevelError},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, logging.ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInit_InvalidLevels(t *testing.T) {
	dir := t.TempDir()

	err := logging.Init(logging.Config{Level: "nope", Path: filepath.Join(dir, "a.log")})
	assert.ErrorIs(t, err, logging.ErrInvalidLevel)

	err = logging.Init(logging.Config{
		Level:      "info",
		Path:       filepath.Join(dir, "b.log"),
		Components: map[string]string{"scheme": "nope"},
	})
	assert.ErrorIs(t, err, logging.ErrInvalidLevel)
}

func TestLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "powerinfo.log")

	logger := logging.Get("filetest")
	logger.Info("before init is discarded")

	require.NoError(t, logging.Init(logging.Config{Level: "info", Path: path}))
	t.Cleanup(func() { _ = logging.Close() })

	logger.Info("scheme resolved", "name", "Balanced")
	logger.Debug("hidden at info level")
	require.NoError(t, logging.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "scheme resolved")
	assert.Contains(t, content, "filetest")
	assert.Contains(t, content, "Balanced")
	assert.NotContains(t, content, "before init")
	assert.NotContains(t, content, "hidden at info level")
}

func TestComponentLevelOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "powerinfo.log")

	require.NoError(t, logging.Init(logging.Config{
		Level:      "warn",
		Path:       path,
		Components: map[string]string{"chatty": "debug"},
	}))
	t.Cleanup(func() { _ = logging.Close() })

	logging.Get("chatty").Debug("chatty debug")
	logging.Get("quiet").Info("quiet info")
	logging.Get("quiet").Warn("quiet warn")
	require.NoError(t, logging.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "chatty debug")
	assert.Contains(t, content, "quiet warn")
	assert.NotContains(t, content, "quiet info")
}

func TestTUIModeKeepsRecentEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "powerinfo.log")

	require.NoError(t, logging.Init(logging.Config{Level: "info", Path: path, TUIMode: true}))
	t.Cleanup(func() { _ = logging.Close() })

	logging.Get("browse").Info("first")
	logging.Get("browse").Debug("below level")
	logging.Get("browse").Warn("second")

	recent := logging.Recent()
	require.NotNil(t, recent)

	entries := recent.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
	assert.Equal(t, logging.LevelWarn, entries[1].Level)
	assert.Equal(t, "browse", entries[1].Component)

	require.NoError(t, logging.Close())
	assert.Nil(t, logging.Recent())
}

func TestDefaultLogPath(t *testing.T) {
	path := logging.DefaultLogPath()
	assert.True(t, strings.HasSuffix(path, filepath.Join("powerinfo", "powerinfo.log")))
}

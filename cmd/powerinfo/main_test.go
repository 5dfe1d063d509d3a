package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/history"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/powercfg"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

const heteroPolicy = "Heterogeneous thread scheduling policy"

// testEnv points every path of the app into a temp dir and selects a memory
// backend persisted to a fixture file, so state carries across invocations.
type testEnv struct {
	dir     string
	fixture string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{dir: dir, fixture: filepath.Join(dir, "fixture.yaml")}

	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("POWERINFO_LOGGING_PATH", filepath.Join(dir, "powerinfo.log"))
	t.Setenv("POWERINFO_HISTORY_PATH", env.historyDir())
	t.Setenv("POWERINFO_SNAPSHOT_PATH", filepath.Join(dir, "snapshots"))
	t.Setenv("POWERINFO_BACKEND", "memory")
	t.Setenv("POWERINFO_FIXTURE", env.fixture)

	require.NoError(t, powercfg.SaveFixture(env.fixture, powercfg.DefaultFixture()))
	return env
}

func (e *testEnv) historyDir() string {
	return filepath.Join(e.dir, "history")
}

// run executes one invocation and returns its stdout and stderr.
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	a.cores = func() types.CoreTypeCounts { return types.CoreTypeCounts{Performance: 6, Efficiency: 8} }
	defer a.close()

	root := a.newRootCmd()
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := e.run(t, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return out
}

func TestDefaultReport(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t)
	want := `Intel Hybrid Architecture Detected: Yes
P-Cores: 6
E-Cores: 8
Active Power Profile: Balanced
Profile: Balanced
  Heterogeneous thread scheduling policy
    AC value: 5
    DC value: 5
  Heterogeneous short running thread scheduling policy
    AC value: 5
    DC value: 5
Profile: High performance
  Heterogeneous thread scheduling policy
    AC value: 0
    DC value: 0
  Heterogeneous short running thread scheduling policy
    AC value: 0
    DC value: 0
Profile: Power saver
  Heterogeneous thread scheduling policy
    AC value: 3
    DC value: 4
  Heterogeneous short running thread scheduling policy
    AC value: 3
    DC value: 4
`
	assert.Equal(t, want, out)
}

func TestDefaultReport_Filters(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "--scheme", "Power saver", "--match", "sleep")
	assert.Contains(t, out, "Profile: Power saver\n  Sleep after\n    AC value: 1800\n    DC value: 900\n")
	assert.NotContains(t, out, "Profile: Balanced")

	_, _, err := env.run(t, "--include", "[")
	assert.Error(t, err)
}

func TestDefaultReport_JSON(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "-o", "json")
	var r struct {
		Cores struct {
			Hybrid bool `json:"hybrid"`
		} `json:"cores"`
		Schemes []struct {
			Active   bool              `json:"active"`
			Settings []json.RawMessage `json:"settings"`
		} `json:"schemes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.True(t, r.Cores.Hybrid)
	require.Len(t, r.Schemes, 3)
	assert.True(t, r.Schemes[0].Active)
	assert.Len(t, r.Schemes[0].Settings, 2)

	_, _, err := env.run(t, "-o", "xml")
	assert.Error(t, err)
}

func TestHelp(t *testing.T) {
	env := newTestEnv(t)

	for _, args := range [][]string{{"Help"}, {"help"}, {"--help"}, {"-h"}} {
		out := env.mustRun(t, args...)
		assert.Contains(t, out, "Usage:", "args %v", args)
		assert.Contains(t, out, "Get", "args %v", args)
	}
}

func TestGet(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "Get", "Power saver", heteroPolicy)
	assert.Equal(t, "AC value: 3\nDC value: 4\n", out)

	out = env.mustRun(t, "get", "Balanced", "Sleep after")
	assert.Equal(t, "AC value: 1800\nDC value: 900\n", out)
}

func TestGet_NotFound(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "Get", "NoSuchProfile", heteroPolicy)
	assert.Equal(t, "Failed to get AC value.\nFailed to get DC value.\n", out)

	out = env.mustRun(t, "Get", "balanced", heteroPolicy)
	assert.Equal(t, "Failed to get AC value.\nFailed to get DC value.\n", out, "names are case-sensitive")
}

func TestGet_ArgCount(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "Get", "Balanced")
	assert.Error(t, err)
}

func TestSet(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "Set", "High performance", heteroPolicy, "2")
	assert.Equal(t, "Set value successfully.\n", out)

	out = env.mustRun(t, "Get", "High performance", heteroPolicy)
	assert.Equal(t, "AC value: 2\nDC value: 2\n", out)

	out = env.mustRun(t, "active")
	assert.Contains(t, out, "Active Power Profile: High performance\n")
	assert.Contains(t, out, "Processor State (AC): min 100, max 100\n")
}

func TestSet_SingleRail(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun(t, "set", "--rail", "dc", "Balanced", heteroPolicy, "0x1")
	out := env.mustRun(t, "Get", "Balanced", heteroPolicy)
	assert.Equal(t, "AC value: 5\nDC value: 1\n", out)
}

func TestSet_SingleRailWithoutHistory(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("POWERINFO_HISTORY_ENABLED", "false")

	out := env.mustRun(t, "Set", "--rail", "dc", "High performance", heteroPolicy, "3")
	assert.Equal(t, "Set value successfully.\n", out)

	out = env.mustRun(t, "Get", "High performance", heteroPolicy)
	assert.Equal(t, "AC value: 0\nDC value: 3\n", out)
	out = env.mustRun(t, "active")
	assert.Contains(t, out, "Active Power Profile: High performance\n")

	f := powercfg.DefaultFixture()
	f.Schemes[0].Subgroups[0].Settings[2].FailWrite = []types.Rail{types.AC}
	require.NoError(t, powercfg.SaveFixture(env.fixture, f))

	out = env.mustRun(t, "Set", "--rail", "ac", "Balanced", heteroPolicy, "1")
	assert.Equal(t, "Failed to set value.\n", out)
	out = env.mustRun(t, "Set", "NoSuchProfile", heteroPolicy, "1", "--rail", "ac")
	assert.Equal(t, "Failed to set value.\n", out)
}

func TestSet_Failures(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "Set", "NoSuchProfile", heteroPolicy, "1")
	assert.Equal(t, "Failed to set value.\n", out)

	_, _, err := env.run(t, "Set", "Balanced", heteroPolicy, "abc")
	assert.Error(t, err)

	_, _, err = env.run(t, "Set", "Balanced", heteroPolicy, "1", "--rail", "sideways")
	assert.Error(t, err)

	_, _, err = env.run(t, "Set", "Balanced", heteroPolicy)
	assert.Error(t, err)
}

func TestSet_WriteFailureInFixture(t *testing.T) {
	env := newTestEnv(t)

	f := powercfg.DefaultFixture()
	f.Schemes[0].Subgroups[0].Settings[2].FailWrite = []types.Rail{types.AC, types.DC}
	require.NoError(t, powercfg.SaveFixture(env.fixture, f))

	out := env.mustRun(t, "Set", "Balanced", heteroPolicy, "1")
	assert.Equal(t, "Failed to set value.\n", out)

	f.Schemes[0].Subgroups[0].Settings[2].FailWrite = []types.Rail{types.AC}
	require.NoError(t, powercfg.SaveFixture(env.fixture, f))

	out = env.mustRun(t, "Set", "Balanced", heteroPolicy, "1")
	assert.Equal(t, "Set value successfully.\n", out, "one successful rail is success")
}

func TestList(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "list")
	assert.Equal(t, "Profile: Balanced\nProfile: High performance\nProfile: Power saver\n", out)

	out = env.mustRun(t, "list", "Balanced")
	assert.Equal(t, 6, strings.Count(out, "AC value:"))

	out = env.mustRun(t, "list", "Nope")
	assert.Empty(t, out)
}

func TestCores(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "cores")
	assert.Equal(t, "Intel Hybrid Architecture Detected: Yes\nP-Cores: 6\nE-Cores: 8\n", out)
}

func TestHistoryAndUndo(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun(t, "Set", "Balanced", heteroPolicy, "1")

	out := env.mustRun(t, "history")
	assert.Contains(t, out, "set")

	j, err := history.New(env.historyDir())
	require.NoError(t, err)
	entries, err := j.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	out = env.mustRun(t, "history", "show", entries[0].ID[:12])
	assert.Contains(t, out, "Balanced / "+heteroPolicy+" [AC]: 5 -> 1 (ok)")

	env.mustRun(t, "history", "undo", entries[0].ID)
	out = env.mustRun(t, "Get", "Balanced", heteroPolicy)
	assert.Equal(t, "AC value: 5\nDC value: 5\n", out)

	entries, err = j.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, history.OpUndo, entries[0].Operation)
}

func TestHistoryDisabled(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("POWERINFO_HISTORY_ENABLED", "false")

	env.mustRun(t, "Set", "Balanced", heteroPolicy, "1")
	out := env.mustRun(t, "history")
	assert.Contains(t, out, "No history entries found.")
}

func TestSnapshotRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "snapshot", "save", "base")
	assert.Contains(t, out, "3 profiles, 18 settings")

	env.mustRun(t, "Set", "Power saver", heteroPolicy, "0")

	out = env.mustRun(t, "snapshot", "diff", "base")
	assert.Contains(t, out, "Active profile:")
	assert.Contains(t, out, "changed")
	assert.Contains(t, out, "2 differences.")

	out = env.mustRun(t, "snapshot", "list")
	assert.Contains(t, out, "base")

	env.mustRun(t, "snapshot", "restore", "base")
	out = env.mustRun(t, "Get", "Power saver", heteroPolicy)
	assert.Equal(t, "AC value: 3\nDC value: 4\n", out)
	out = env.mustRun(t, "active")
	assert.Contains(t, out, "Active Power Profile: Balanced\n")

	out = env.mustRun(t, "snapshot", "restore", "base")
	assert.Contains(t, out, "already match")

	env.mustRun(t, "snapshot", "delete", "base")
	_, _, err := env.run(t, "snapshot", "show", "base")
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	env := newTestEnv(t)

	plans := filepath.Join(env.dir, "plans")
	require.NoError(t, os.MkdirAll(plans, 0o755))
	plan := `name: quiet
settings:
  - scheme: Power saver
    setting: Sleep after
    ac: 600
    dc: 300
  - scheme: Nowhere
    setting: Sleep after
    ac: 1
`
	require.NoError(t, os.WriteFile(filepath.Join(plans, "quiet.yaml"), []byte(plan), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(plans, "notes.txt"), []byte("ignored"), 0o644))

	out, stderr, err := env.run(t, "apply", plans)
	require.NoError(t, err)
	assert.Contains(t, out, "Applied quiet")
	assert.Contains(t, out, "2 of 2 values")
	assert.Contains(t, stderr, "Warning:")

	out = env.mustRun(t, "Get", "Power saver", "Sleep after")
	assert.Equal(t, "AC value: 600\nDC value: 300\n", out)
	out = env.mustRun(t, "active")
	assert.Contains(t, out, "Active Power Profile: Power saver\n")
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)
	want := filepath.Join(env.dir, "config", "powerinfo", "config.yaml")

	out := env.mustRun(t, "config", "path")
	assert.Equal(t, want+"\n", out)

	out = env.mustRun(t, "config", "init")
	assert.Contains(t, out, "Created default config file")
	assert.FileExists(t, want)

	out = env.mustRun(t, "config", "init")
	assert.Contains(t, out, "already exists")

	out = env.mustRun(t, "config", "show")
	assert.Contains(t, out, "Config file: "+want)
	assert.Contains(t, out, "backend:                 memory")
	assert.Contains(t, out, "POWERINFO_BACKEND=memory")
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "version")
	assert.True(t, strings.HasPrefix(out, "powerinfo dev\n"))
}

func TestParseRails(t *testing.T) {
	tests := []struct {
		in      string
		want    []types.Rail
		wantErr bool
	}{
		{"both", []types.Rail{types.AC, types.DC}, false},
		{"BOTH", []types.Rail{types.AC, types.DC}, false},
		{"ac", []types.Rail{types.AC}, false},
		{"DC", []types.Rail{types.DC}, false},
		{"x", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRails(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

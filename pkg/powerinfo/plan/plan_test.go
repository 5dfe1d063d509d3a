package plan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/powercfg"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/scheme"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

const quietPlan = `name: quiet
settings:
  - scheme: Balanced
    setting: Heterogeneous thread scheduling policy
    ac: 1
    dc: 2
  - scheme: Power saver
    setting: Maximum processor state
    dc: 50
`

const quietPlanTOML = `name = "quiet"
activate = false

[[settings]]
scheme = "Balanced"
setting = "Heterogeneous thread scheduling policy"
ac = 1
`

var heteroRef = types.SettingRef{
	Scheme:   types.BalancedSchemeGUID,
	Subgroup: types.ProcessorSettingsSubgroupGUID,
	Setting:  types.HeteroPolicyGUID,
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newAccessor(t *testing.T) (*powercfg.Memory, *scheme.Accessor) {
	t.Helper()
	f := powercfg.DefaultFixture()
	f.Active = types.HighPerformanceSchemeGUID
	m, err := powercfg.NewMemory(f)
	require.NoError(t, err)
	return m, scheme.NewAccessor(m)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "quiet.yaml"), quietPlan)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "quiet", p.Name)
	assert.Equal(t, path, p.Path)
	assert.True(t, p.ShouldActivate())
	require.Len(t, p.Settings, 2)
	require.NotNil(t, p.Settings[0].AC)
	assert.Equal(t, uint32(1), *p.Settings[0].AC)
	assert.Nil(t, p.Settings[1].AC)
	assert.Equal(t, uint32(50), *p.Settings[1].DC)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "quiet.toml"), quietPlanTOML)

	p, err := Load(path)
	require.NoError(t, err)
	assert.False(t, p.ShouldActivate())
	require.Len(t, p.Settings, 1)
	assert.Nil(t, p.Settings[0].DC)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "missing scheme", content: "settings:\n  - setting: x\n    ac: 1\n", wantErr: ErrInvalidPlan},
		{name: "missing setting", content: "settings:\n  - scheme: x\n    ac: 1\n", wantErr: ErrInvalidPlan},
		{name: "missing values", content: "settings:\n  - scheme: x\n    setting: y\n", wantErr: ErrInvalidPlan},
		{name: "malformed", content: "settings: [unclosed\n"},
		{name: "negative value", content: "settings:\n  - scheme: x\n    setting: y\n    ac: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(dir, tt.name+".yaml"), tt.content)
			_, err := Load(path)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	m, acc := newAccessor(t)
	p, err := Load(writeFile(t, filepath.Join(t.TempDir(), "quiet.yaml"), quietPlan))
	require.NoError(t, err)

	applied, err := Apply(acc, p)
	require.NoError(t, err)
	require.Len(t, applied, 3)
	assert.Equal(t, "5", applied[0].Old)

	ac, err := m.ReadValue(types.AC, heteroRef)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), ac)
	dc, err := m.ReadValue(types.DC, heteroRef)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), dc)

	active, err := m.ActiveScheme()
	require.NoError(t, err)
	assert.Equal(t, types.PowerSaverSchemeGUID, active, "last touched scheme is activated last")
}

func TestApply_NoActivate(t *testing.T) {
	m, acc := newAccessor(t)
	p, err := Load(writeFile(t, filepath.Join(t.TempDir(), "quiet.toml"), quietPlanTOML))
	require.NoError(t, err)

	_, err = Apply(acc, p)
	require.NoError(t, err)

	active, err := m.ActiveScheme()
	require.NoError(t, err)
	assert.Equal(t, types.HighPerformanceSchemeGUID, active)
}

func TestApply_UnknownNamesSkipped(t *testing.T) {
	m, acc := newAccessor(t)
	one := uint32(1)
	p := &Plan{Settings: []Setting{
		{Scheme: "Nope", Setting: powercfg.HeteroPolicyName, AC: &one},
		{Scheme: "Balanced", Setting: "Nope", AC: &one},
		{Scheme: "Balanced", Setting: powercfg.HeteroPolicyName, AC: &one},
	}}

	applied, err := Apply(acc, p)
	assert.ErrorIs(t, err, scheme.ErrSchemeNotFound)
	assert.ErrorIs(t, err, scheme.ErrSettingNotFound)
	require.Len(t, applied, 1)

	v, readErr := m.ReadValue(types.AC, heteroRef)
	require.NoError(t, readErr)
	assert.Equal(t, uint32(1), v)
}

func TestMatcher(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)
	assert.True(t, m.Match("/a/b/plan.yaml"))
	assert.True(t, m.Match("PLAN.YML"))
	assert.True(t, m.Match("plan.toml"))
	assert.False(t, m.Match("plan.json"))

	custom, err := NewMatcher("power-*.yaml")
	require.NoError(t, err)
	assert.True(t, custom.Match("power-quiet.yaml"))
	assert.False(t, custom.Match("quiet.yaml"))

	_, err = NewMatcher("[")
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.yaml"), quietPlan)
	writeFile(t, filepath.Join(root, "a.toml"), quietPlanTOML)
	writeFile(t, filepath.Join(root, "nested", "c.yml"), quietPlan)
	writeFile(t, filepath.Join(root, ".hidden", "d.yaml"), quietPlan)
	writeFile(t, filepath.Join(root, "notes.txt"), "x")

	m, err := NewMatcher()
	require.NoError(t, err)

	found, err := Discover(root, m)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.toml"),
		filepath.Join(root, "b.yaml"),
		filepath.Join(root, "nested", "c.yml"),
	}, found)

	single, err := Discover(filepath.Join(root, "notes.txt"), m)
	require.NoError(t, err)
	assert.Len(t, single, 1, "an explicit file is returned regardless of pattern")

	_, err = Discover(filepath.Join(root, "missing"), m)
	assert.Error(t, err)
}

func TestWatcher_DebouncesChanges(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, filepath.Join(root, "quiet.yaml"), quietPlan)

	m, err := NewMatcher()
	require.NoError(t, err)
	w, err := NewWatcher(root, m, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(paths []string) { changes <- paths })
	}()

	for range 3 {
		writeFile(t, path, quietPlan)
	}
	writeFile(t, filepath.Join(root, "ignored.txt"), "x")

	select {
	case got := <-changes:
		resolved, err := filepath.EvalSymlinks(root)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Contains(t, []string{path, filepath.Join(resolved, "quiet.yaml")}, got[0])
	case <-ctx.Done():
		t.Fatal("no change reported")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_NewDirectoryWithPlans(t *testing.T) {
	root := t.TempDir()
	staging := t.TempDir()
	writeFile(t, filepath.Join(staging, "sub", "late.yaml"), quietPlan)
	writeFile(t, filepath.Join(staging, "sub", "notes.txt"), "x")

	m, err := NewMatcher()
	require.NoError(t, err)
	w, err := NewWatcher(root, m, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := make(chan []string, 4)
	go func() { _ = w.Run(ctx, func(paths []string) { changes <- paths }) }()

	// The directory arrives already populated, so no event is seen for its files.
	require.NoError(t, os.Rename(filepath.Join(staging, "sub"), filepath.Join(root, "sub")))

	select {
	case got := <-changes:
		require.Len(t, got, 1)
		assert.True(t, strings.HasSuffix(got[0], filepath.Join("sub", "late.yaml")), got[0])
	case <-ctx.Done():
		t.Fatal("plans in new directory not reported")
	}
}

func TestWatcher_SingleFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, filepath.Join(root, "quiet.yaml"), quietPlan)

	w, err := NewWatcher(path, nil, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := make(chan []string, 4)
	go func() { _ = w.Run(ctx, func(paths []string) { changes <- paths }) }()

	writeFile(t, filepath.Join(root, "other.yaml"), quietPlan)
	writeFile(t, path, quietPlan)

	select {
	case got := <-changes:
		assert.Equal(t, []string{path}, got)
	case <-ctx.Done():
		t.Fatal("no change reported")
	}
}

package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

func setting(scheme, subgroup, name string) types.SettingInfo {
	return types.SettingInfo{SchemeName: scheme, SubgroupName: subgroup, Name: name, ACValue: "0", DCValue: "0"}
}

func names(settings []types.SettingInfo) []string {
	out := make([]string, len(settings))
	for i, s := range settings {
		out[i] = s.Name
	}
	return out
}

var sample = []types.SettingInfo{
	setting("Balanced", "Processor power management", "Minimum processor state"),
	setting("Balanced", "Processor power management", "Heterogeneous thread scheduling policy"),
	setting("Balanced", "Processor power management", "Heterogeneous short running thread scheduling policy"),
	setting("Balanced", "Display", "Turn off display after"),
	setting("Power saver", "Processor power management", "HETEROGENEOUS THREAD SCHEDULING POLICY"),
}

func TestNew_DefaultSelectsHeterogeneousPolicies(t *testing.T) {
	f, err := New()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Heterogeneous thread scheduling policy",
		"Heterogeneous short running thread scheduling policy",
		"HETEROGENEOUS THREAD SCHEDULING POLICY",
	}, names(f.Apply(sample)))
}

func TestFilter_Options(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want []string
	}{
		{
			name: "no fragments keeps everything",
			opts: []Option{WithContains()},
			want: names(sample),
		},
		{
			name: "include glob",
			opts: []Option{WithContains(), WithInclude("*processor*")},
			want: []string{"Minimum processor state"},
		},
		{
			name: "exclude glob",
			opts: []Option{WithExclude("*short*")},
			want: []string{"Heterogeneous thread scheduling policy", "HETEROGENEOUS THREAD SCHEDULING POLICY"},
		},
		{
			name: "scheme names are exact",
			opts: []Option{WithSchemes("Power saver")},
			want: []string{"HETEROGENEOUS THREAD SCHEDULING POLICY"},
		},
		{
			name: "scheme name case matters",
			opts: []Option{WithSchemes("power saver")},
			want: nil,
		},
		{
			name: "sort and limit",
			opts: []Option{WithContains(), WithSortBy(SortName), WithLimit(2)},
			want: []string{"Heterogeneous short running thread scheduling policy", "Heterogeneous thread scheduling policy"},
		},
		{
			name: "sort by subgroup",
			opts: []Option{WithContains("display", "minimum"), WithSortBy(SortSubgroup)},
			want: []string{"Turn off display after", "Minimum processor state"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.opts...)
			require.NoError(t, err)

			got := f.Apply(sample)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestNew_InvalidGlob(t *testing.T) {
	_, err := New(WithInclude("[unterminated"))
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	in := append([]types.SettingInfo(nil), sample...)
	f, err := New(WithContains(), WithSortBy(SortName))
	require.NoError(t, err)

	_ = f.Apply(in)
	assert.Equal(t, sample, in)
}

func TestParseSortField(t *testing.T) {
	got, err := ParseSortField("Subgroup")
	require.NoError(t, err)
	assert.Equal(t, SortSubgroup, got)
	assert.Equal(t, "subgroup", got.String())

	_, err = ParseSortField("size")
	assert.ErrorIs(t, err, ErrInvalidSortField)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "30d", want: 30 * Day},
		{in: "2w", want: 2 * Week},
		{in: "1mo", want: Month},
		{in: "1Y", want: Year},
		{in: "1.5d", want: 36 * time.Hour},
		{in: "90m", want: 90 * time.Minute},
		{in: "", wantErr: true},
		{in: "-1d", wantErr: true},
		{in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDuration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGUID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "canonical", input: "381b4222-f694-41f0-9685-ff5bb260df2e", want: "381b4222-f694-41f0-9685-ff5bb260df2e"},
		{name: "braces", input: "{381B4222-F694-41F0-9685-FF5BB260DF2E}", want: "381b4222-f694-41f0-9685-ff5bb260df2e"},
		{name: "surrounding space", input: "  381b4222-f694-41f0-9685-ff5bb260df2e ", want: "381b4222-f694-41f0-9685-ff5bb260df2e"},
		{name: "garbage", input: "Balanced", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGUID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestGUID_Fields(t *testing.T) {
	g := BalancedSchemeGUID

	d1, d2, d3, d4 := g.Fields()
	assert.Equal(t, uint32(0x381b4222), d1)
	assert.Equal(t, uint16(0xf694), d2)
	assert.Equal(t, uint16(0x41f0), d3)
	assert.Equal(t, [8]byte{0x96, 0x85, 0xff, 0x5b, 0xb2, 0x60, 0xdf, 0x2e}, d4)

	assert.Equal(t, g, GUIDFromFields(d1, d2, d3, d4))
}

func TestGUID_JSON(t *testing.T) {
	ref := SettingRef{
		Scheme:   BalancedSchemeGUID,
		Subgroup: ProcessorSettingsSubgroupGUID,
		Setting:  HeteroPolicyGUID,
	}

	data, err := json.Marshal(ref)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scheme":"381b4222-f694-41f0-9685-ff5bb260df2e"`)

	var decoded SettingRef
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ref, decoded)
}

func TestParseRail(t *testing.T) {
	for _, in := range []string{"ac", "AC", " Ac "} {
		r, err := ParseRail(in)
		require.NoError(t, err)
		assert.Equal(t, AC, r)
	}

	r, err := ParseRail("dc")
	require.NoError(t, err)
	assert.Equal(t, DC, r)

	_, err = ParseRail("both")
	assert.ErrorIs(t, err, ErrInvalidRail)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "42", FormatValue(42, nil))
	assert.Equal(t, "4294967295", FormatValue(^uint32(0), nil))
	assert.Equal(t, ValueError, FormatValue(42, assert.AnError))
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue("1")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)

	v, err = ParseValue("0x10")
	require.NoError(t, err)
	assert.Equal(t, uint32(16), v)

	_, err = ParseValue("-1")
	assert.Error(t, err)

	_, err = ParseValue("4294967296")
	assert.Error(t, err)
}

func TestSettingInfo_Uint(t *testing.T) {
	info := SettingInfo{ACValue: "5", DCValue: ValueError}

	v, ok := info.Uint(AC)
	assert.True(t, ok)
	assert.Equal(t, uint32(5), v)

	_, ok = info.Uint(DC)
	assert.False(t, ok)
}

func TestCoreTypeCounts(t *testing.T) {
	var c CoreTypeCounts
	assert.False(t, c.HybridDetected())

	for _, class := range []uint8{0, 0, 1, 2, 7} {
		if role, ok := RoleForClass(class); ok {
			c.Add(role)
		}
	}

	assert.Equal(t, 2, c.Performance)
	assert.Equal(t, 1, c.Efficiency)
	assert.True(t, c.HybridDetected())

	single := CoreTypeCounts{Performance: 8}
	assert.False(t, single.HybridDetected())
}

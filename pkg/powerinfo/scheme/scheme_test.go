package scheme

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/powercfg"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

var (
	namelessScheme  = types.MustParseGUID("0f0f0f0f-1111-2222-3333-444444444444")
	duplicateScheme = types.MustParseGUID("0e0e0e0e-1111-2222-3333-444444444444")
	namelessSetting = types.MustParseGUID("0d0d0d0d-1111-2222-3333-444444444444")
)

// testStore returns the default fixture plus a scheme without a name that
// holds a nameless setting and an unreadable DC value, and a second scheme
// also named "Balanced".
func testStore(t *testing.T) *powercfg.Memory {
	t.Helper()

	f := powercfg.DefaultFixture()
	f.Active = types.PowerSaverSchemeGUID
	f.Schemes = append(f.Schemes,
		powercfg.FixtureScheme{
			GUID: namelessScheme,
			Subgroups: []powercfg.FixtureSubgroup{{
				GUID: types.ProcessorSettingsSubgroupGUID,
				Name: "Processor power management",
				Settings: []powercfg.FixtureSetting{
					{GUID: namelessSetting, AC: 7, DC: 8, FailRead: []types.Rail{types.DC}},
				},
			}},
		},
		powercfg.FixtureScheme{GUID: duplicateScheme, Name: "Balanced"},
	)

	m, err := powercfg.NewMemory(f)
	require.NoError(t, err)
	return m
}

func TestSchemes_OrderAndFallbackNames(t *testing.T) {
	e := NewEnumerator(testStore(t))

	schemes := e.ListSchemes()
	require.Len(t, schemes, 5)

	names := make([]string, len(schemes))
	for i, s := range schemes {
		names[i] = s.Name
		assert.NotEmpty(t, s.Name)
	}
	assert.Equal(t, []string{
		"Balanced",
		"High performance",
		"Power saver",
		namelessScheme.String(),
		"Balanced",
	}, names)
}

func TestSchemes_EarlyStop(t *testing.T) {
	e := NewEnumerator(testStore(t))

	var seen int
	for range e.Schemes() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestSchemes_EnumerationFailureStops(t *testing.T) {
	m := testStore(t)
	m.Fail(powercfg.OpEnumerate, 5)

	e := NewEnumerator(m)
	assert.Empty(t, e.ListSchemes())
	assert.Error(t, e.Probe())

	m.Fail(powercfg.OpEnumerate, 0)
	assert.NoError(t, e.Probe())
}

func TestSettings_ValuesAreNumericOrSentinel(t *testing.T) {
	e := NewEnumerator(testStore(t))

	var total int
	for _, s := range e.ListSchemes() {
		for info := range e.Settings(s) {
			total++
			assert.NotEmpty(t, info.Name)
			assert.Equal(t, s.Name, info.SchemeName)
			for _, v := range []string{info.ACValue, info.DCValue} {
				if v == types.ValueError {
					continue
				}
				_, err := strconv.ParseUint(v, 10, 32)
				assert.NoError(t, err, "value %q", v)
			}
		}
	}
	assert.Equal(t, 3*6+1, total)
}

func TestSettings_ReadFailureMarksOneRail(t *testing.T) {
	e := NewEnumerator(testStore(t))

	settings := e.ListSettings(types.Scheme{GUID: namelessScheme, Name: namelessScheme.String()})
	require.Len(t, settings, 1)

	info := settings[0]
	assert.Equal(t, namelessSetting.String(), info.Name)
	assert.Equal(t, "Processor power management", info.SubgroupName)
	assert.Equal(t, "7", info.ACValue)
	assert.Equal(t, types.ValueError, info.DCValue)
	assert.Empty(t, info.Description)
}

func TestSettings_Order(t *testing.T) {
	e := NewEnumerator(testStore(t))

	var names []string
	for info := range e.Settings(types.Scheme{GUID: types.BalancedSchemeGUID, Name: "Balanced"}) {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{
		"Minimum processor state",
		"Maximum processor state",
		powercfg.HeteroPolicyName,
		powercfg.HeteroShortPolicyName,
		"Turn off display after",
		"Sleep after",
	}, names)
}

func TestIndexByName_ReportsCollisions(t *testing.T) {
	e := NewEnumerator(testStore(t))

	index, collisions := IndexByName(e.ListSchemes())
	assert.Len(t, index, 4)
	assert.Equal(t, duplicateScheme, index["Balanced"].GUID, "later scheme wins")

	require.Len(t, collisions, 1)
	assert.Equal(t, types.NameCollision{
		Name:    "Balanced",
		Kept:    duplicateScheme,
		Dropped: types.BalancedSchemeGUID,
	}, collisions[0])
}

func TestActiveScheme(t *testing.T) {
	e := NewEnumerator(testStore(t))

	active, err := e.ActiveScheme()
	require.NoError(t, err)
	assert.Equal(t, "Power saver", active.Scheme.Name)
	assert.Equal(t, "5", active.ThrottleMinAC)
	assert.Equal(t, "5", active.ThrottleMinDC)
	assert.Equal(t, "100", active.ThrottleMaxAC)
	assert.Equal(t, "100", active.ThrottleMaxDC)
}

func TestActiveScheme_Failures(t *testing.T) {
	m := testStore(t)
	e := NewEnumerator(m)

	m.Fail(powercfg.OpGetActiveScheme, 5)
	_, err := e.ActiveScheme()
	assert.Error(t, err)
	m.Fail(powercfg.OpGetActiveScheme, 0)

	require.NoError(t, m.SetActiveScheme(namelessScheme))
	_, err = e.ActiveScheme()
	assert.ErrorIs(t, err, powercfg.ErrNameUnavailable)

	require.NoError(t, m.SetActiveScheme(types.BalancedSchemeGUID))
	m.Fail(powercfg.OpReadDCValue, 5)
	active, err := e.ActiveScheme()
	require.NoError(t, err)
	assert.Equal(t, "Balanced", active.Scheme.Name, "a throttle failure keeps the name")
	assert.Equal(t, types.ValueError, active.ThrottleMaxDC)
	assert.Equal(t, "100", active.ThrottleMaxAC)
}

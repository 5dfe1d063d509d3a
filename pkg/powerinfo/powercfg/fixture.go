package powercfg

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// Fixture is the serialized form of a Memory store.
// Entries keep their file order, which becomes the enumeration order.
type Fixture struct {
	Active  types.GUID      `yaml:"active,omitempty" toml:"active,omitempty"`
	Schemes []FixtureScheme `yaml:"schemes" toml:"schemes"`
}

// FixtureScheme is one scheme of a Fixture. An empty Name simulates a scheme
// whose friendly name cannot be read.
type FixtureScheme struct {
	GUID        types.GUID        `yaml:"guid" toml:"guid"`
	Name        string            `yaml:"name,omitempty" toml:"name,omitempty"`
	Description string            `yaml:"description,omitempty" toml:"description,omitempty"`
	Subgroups   []FixtureSubgroup `yaml:"subgroups,omitempty" toml:"subgroups,omitempty"`
}

// FixtureSubgroup is one subgroup of a FixtureScheme.
type FixtureSubgroup struct {
	GUID        types.GUID       `yaml:"guid" toml:"guid"`
	Name        string           `yaml:"name,omitempty" toml:"name,omitempty"`
	Description string           `yaml:"description,omitempty" toml:"description,omitempty"`
	Settings    []FixtureSetting `yaml:"settings,omitempty" toml:"settings,omitempty"`
}

// FixtureSetting is one setting of a FixtureSubgroup.
// FailRead and FailWrite list rails whose calls fail with access denied.
type FixtureSetting struct {
	GUID        types.GUID   `yaml:"guid" toml:"guid"`
	Name        string       `yaml:"name,omitempty" toml:"name,omitempty"`
	Description string       `yaml:"description,omitempty" toml:"description,omitempty"`
	AC          uint32       `yaml:"ac" toml:"ac"`
	DC          uint32       `yaml:"dc" toml:"dc"`
	FailRead    []types.Rail `yaml:"fail_read,omitempty" toml:"fail_read,omitempty"`
	FailWrite   []types.Rail `yaml:"fail_write,omitempty" toml:"fail_write,omitempty"`
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadFixture reads a fixture from a YAML or, for a .toml extension, TOML file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("reading fixture: %w", err)
	}

	var f Fixture
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &f); err != nil {
			return Fixture{}, fmt.Errorf("parsing fixture %s: %w", path, err)
		}
		return f, nil
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	return f, nil
}

// SaveFixture writes f to path, replacing any existing file atomically.
func SaveFixture(path string, f Fixture) error {
	var buf bytes.Buffer
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(f); err != nil {
			return fmt.Errorf("encoding fixture: %w", err)
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encoding fixture: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding fixture: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating fixture directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming fixture: %w", err)
	}
	return nil
}

// Names of settings in the processor power management subgroup.
const (
	HeteroPolicyName      = "Heterogeneous thread scheduling policy"
	HeteroShortPolicyName = "Heterogeneous short running thread scheduling policy"
)

var (
	displaySubgroupGUID = types.MustParseGUID("7516b95f-f776-4464-8c53-06167f40cc99")
	videoIdleGUID       = types.MustParseGUID("3c0bc021-c8a8-4e07-a973-6b14cbcb2b7e")
	sleepSubgroupGUID   = types.MustParseGUID("238c9fa8-0aad-41ed-83f4-97be242c8f20")
	standbyIdleGUID     = types.MustParseGUID("29f6c1db-86da-48c5-9fdb-f2b67b1f44da")
)

// DefaultFixture returns the three stock Windows schemes with a small set of
// processor, display and sleep settings. Balanced is active.
func DefaultFixture() Fixture {
	scheme := func(guid types.GUID, name, desc string, minState, heteroAC, heteroDC, displayAC, displayDC uint32) FixtureScheme {
		return FixtureScheme{
			GUID:        guid,
			Name:        name,
			Description: desc,
			Subgroups: []FixtureSubgroup{
				{
					GUID:        types.ProcessorSettingsSubgroupGUID,
					Name:        "Processor power management",
					Description: "Configure processor power management settings",
					Settings: []FixtureSetting{
						{GUID: types.ProcessorThrottleMinimumGUID, Name: "Minimum processor state", Description: "Specify the minimum processor performance state (in percent).", AC: minState, DC: minState},
						{GUID: types.ProcessorThrottleMaximumGUID, Name: "Maximum processor state", Description: "Specify the maximum processor performance state (in percent).", AC: 100, DC: 100},
						{GUID: types.HeteroPolicyGUID, Name: HeteroPolicyName, Description: "Specify what thread scheduling policy to use on heterogeneous systems.", AC: heteroAC, DC: heteroDC},
						{GUID: types.HeteroShortPolicyGUID, Name: HeteroShortPolicyName, Description: "Specify what thread scheduling policy to use for short running threads on heterogeneous systems.", AC: heteroAC, DC: heteroDC},
					},
				},
				{
					GUID: displaySubgroupGUID,
					Name: "Display",
					Settings: []FixtureSetting{
						{GUID: videoIdleGUID, Name: "Turn off display after", AC: displayAC, DC: displayDC},
					},
				},
				{
					GUID: sleepSubgroupGUID,
					Name: "Sleep",
					Settings: []FixtureSetting{
						{GUID: standbyIdleGUID, Name: "Sleep after", AC: 1800, DC: 900},
					},
				},
			},
		}
	}

	return Fixture{
		Active: types.BalancedSchemeGUID,
		Schemes: []FixtureScheme{
			scheme(types.BalancedSchemeGUID, "Balanced",
				"Automatically balances performance with energy consumption on capable hardware.",
				5, 5, 5, 600, 300),
			scheme(types.HighPerformanceSchemeGUID, "High performance",
				"Favors performance, but may use more energy.",
				100, 0, 0, 900, 600),
			scheme(types.PowerSaverSchemeGUID, "Power saver",
				"Saves energy by reducing your computer's performance where possible.",
				5, 3, 4, 300, 120),
		},
	}
}

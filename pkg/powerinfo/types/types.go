// Package types provides core data types for powerinfo.
// It includes the identifiers and snapshots exchanged between the power
// configuration backend, the enumerator, the output formatters and the CLI.
package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Rail selects which of a setting's two values is addressed.
type Rail int

const (
	// AC is the value used while the device is on external power.
	AC Rail = iota
	// DC is the value used while the device is on battery.
	DC
)

// Rails lists both rails in the order commands address them.
var Rails = []Rail{AC, DC}

// String returns "AC" or "DC".
func (r Rail) String() string {
	switch r {
	case AC:
		return "AC"
	case DC:
		return "DC"
	default:
		return "unknown"
	}
}

// ErrInvalidRail is returned when a rail string cannot be parsed.
var ErrInvalidRail = errors.New("invalid rail")

// ParseRail parses "ac" or "dc" (case-insensitive).
func ParseRail(s string) (Rail, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ac":
		return AC, nil
	case "dc":
		return DC, nil
	default:
		return AC, fmt.Errorf("%w: %q", ErrInvalidRail, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Rail) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(r.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rail) UnmarshalText(text []byte) error {
	parsed, err := ParseRail(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Scheme is a registered power scheme (power plan).
// Name is never empty: when the friendly name cannot be resolved it holds the
// GUID string.
type Scheme struct {
	GUID        GUID   `json:"guid" yaml:"guid"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Subgroup is a named category of settings within a scheme.
type Subgroup struct {
	GUID GUID   `json:"guid" yaml:"guid"`
	Name string `json:"name" yaml:"name"`
}

// SettingRef is the identifier triple the OS needs to address one setting.
type SettingRef struct {
	Scheme   GUID `json:"scheme" yaml:"scheme"`
	Subgroup GUID `json:"subgroup" yaml:"subgroup"`
	Setting  GUID `json:"setting" yaml:"setting"`
}

// ValueError is the display value of a setting value that could not be read.
const ValueError = "error"

// FormatValue renders a value read for display. A non-nil err yields ValueError.
func FormatValue(v uint32, err error) string {
	if err != nil {
		return ValueError
	}
	return strconv.FormatUint(uint64(v), 10)
}

// ParseValue parses a decimal or 0x-prefixed hexadecimal 32-bit value.
func ParseValue(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return uint32(v), nil
}

// SettingInfo is a read-only snapshot of one setting within one scheme.
// ACValue and DCValue are either a decimal uint32 or ValueError.
type SettingInfo struct {
	Ref          SettingRef `json:"ref" yaml:"ref"`
	SchemeName   string     `json:"scheme_name" yaml:"scheme_name"`
	SubgroupName string     `json:"subgroup_name" yaml:"subgroup_name"`
	Name         string     `json:"name" yaml:"name"`
	Description  string     `json:"description,omitempty" yaml:"description,omitempty"`
	ACValue      string     `json:"ac_value" yaml:"ac_value"`
	DCValue      string     `json:"dc_value" yaml:"dc_value"`
}

// Value returns the display value for the given rail.
func (s SettingInfo) Value(r Rail) string {
	if r == DC {
		return s.DCValue
	}
	return s.ACValue
}

// Uint returns the numeric value for the given rail; ok is false for ValueError.
func (s SettingInfo) Uint(r Rail) (uint32, bool) {
	v, err := strconv.ParseUint(s.Value(r), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// ActiveScheme describes the currently active scheme together with the
// processor throttle bounds read from it.
type ActiveScheme struct {
	Scheme        Scheme `json:"scheme" yaml:"scheme"`
	ThrottleMinAC string `json:"throttle_min_ac" yaml:"throttle_min_ac"`
	ThrottleMinDC string `json:"throttle_min_dc" yaml:"throttle_min_dc"`
	ThrottleMaxAC string `json:"throttle_max_ac" yaml:"throttle_max_ac"`
	ThrottleMaxDC string `json:"throttle_max_dc" yaml:"throttle_max_dc"`
}

// NameCollision records a scheme dropped from a name-keyed index because a
// later scheme resolved to the same display name.
type NameCollision struct {
	Name    string `json:"name" yaml:"name"`
	Kept    GUID   `json:"kept" yaml:"kept"`
	Dropped GUID   `json:"dropped" yaml:"dropped"`
}

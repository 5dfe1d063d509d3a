package types

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GUID is a 128-bit identifier the operating system assigns to power schemes,
// setting subgroups and individual settings.
//
// The byte order is the canonical (big-endian) textual order, so String()
// returns the familiar lower-case 8-4-4-4-12 form that powercfg prints.
type GUID uuid.UUID

// NilGUID is the all-zero GUID.
var NilGUID GUID

// ParseGUID parses a GUID in canonical form, with or without surrounding braces.
func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return NilGUID, fmt.Errorf("invalid GUID %q: %w", s, err)
	}
	return GUID(u), nil
}

// MustParseGUID is like ParseGUID but panics on malformed input.
// It is intended for package-level well-known identifiers.
func MustParseGUID(s string) GUID {
	return GUID(uuid.MustParse(s))
}

// String returns the canonical lower-case string form.
func (g GUID) String() string {
	return uuid.UUID(g).String()
}

// IsZero reports whether g is the nil GUID.
func (g GUID) IsZero() bool {
	return g == NilGUID
}

// MarshalText implements encoding.TextMarshaler.
func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GUID) UnmarshalText(text []byte) error {
	parsed, err := ParseGUID(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Fields splits the GUID into the Windows structure layout
// (Data1, Data2, Data3, Data4).
func (g GUID) Fields() (uint32, uint16, uint16, [8]byte) {
	var d4 [8]byte
	copy(d4[:], g[8:])
	return binary.BigEndian.Uint32(g[0:4]),
		binary.BigEndian.Uint16(g[4:6]),
		binary.BigEndian.Uint16(g[6:8]),
		d4
}

// GUIDFromFields builds a GUID from the Windows structure layout.
func GUIDFromFields(d1 uint32, d2, d3 uint16, d4 [8]byte) GUID {
	var g GUID
	binary.BigEndian.PutUint32(g[0:4], d1)
	binary.BigEndian.PutUint16(g[4:6], d2)
	binary.BigEndian.PutUint16(g[6:8], d3)
	copy(g[8:], d4[:])
	return g
}

// Well-known identifiers from the Windows SDK (winnt.h).
var (
	// NoSubgroupGUID addresses settings that do not belong to a subgroup.
	NoSubgroupGUID = MustParseGUID("fea3413e-7e05-4911-9a71-700331f1c294")

	// ProcessorSettingsSubgroupGUID is "Processor power management".
	ProcessorSettingsSubgroupGUID = MustParseGUID("54533251-82be-4824-96c1-47b60b740d00")

	// ProcessorThrottleMaximumGUID is "Maximum processor state".
	ProcessorThrottleMaximumGUID = MustParseGUID("bc5038f7-23e0-4960-96da-33abaf5935ec")

	// ProcessorThrottleMinimumGUID is "Minimum processor state".
	ProcessorThrottleMinimumGUID = MustParseGUID("893dee8e-2bef-41e0-89c6-b55d0929964c")

	// HeteroPolicyGUID is "Heterogeneous thread scheduling policy".
	HeteroPolicyGUID = MustParseGUID("93b8b6dc-0698-4d1c-9ee4-0644e900c85d")

	// HeteroShortPolicyGUID is "Heterogeneous short running thread scheduling policy".
	HeteroShortPolicyGUID = MustParseGUID("bae08b81-2d5e-4688-ad6a-13243356654b")

	// BalancedSchemeGUID is the stock "Balanced" scheme.
	BalancedSchemeGUID = MustParseGUID("381b4222-f694-41f0-9685-ff5bb260df2e")

	// HighPerformanceSchemeGUID is the stock "High performance" scheme.
	HighPerformanceSchemeGUID = MustParseGUID("8c5e7fda-e8bf-4a96-9a85-a6e23a8c635c")

	// PowerSaverSchemeGUID is the stock "Power saver" scheme.
	PowerSaverSchemeGUID = MustParseGUID("a1841308-3541-4fab-bc81-f71556f20b4a")
)

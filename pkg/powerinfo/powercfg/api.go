// Package powercfg is the boundary to the operating system's power
// configuration store.
//
// API mirrors the powrprof.dll calls one to one. Native binds them on
// Windows; Memory is an in-process store with the same semantics used for
// tests, demos and non-Windows development.
package powercfg

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// API is the set of power configuration calls powerinfo depends on.
//
// Enumeration is index based: callers ask for index 0, 1, 2, ... until the
// call returns ErrNoMoreItems.
type API interface {
	EnumerateSchemes(index uint32) (types.GUID, error)
	EnumerateSubgroups(scheme types.GUID, index uint32) (types.GUID, error)
	EnumerateSettings(scheme, subgroup types.GUID, index uint32) (types.GUID, error)

	ReadFriendlyName(p Path) (string, error)
	ReadDescription(p Path) (string, error)

	ReadValue(rail types.Rail, ref types.SettingRef) (uint32, error)
	WriteValue(rail types.Rail, ref types.SettingRef, value uint32) error

	ActiveScheme() (types.GUID, error)
	SetActiveScheme(scheme types.GUID) error
}

// Path addresses a scheme, a subgroup within a scheme, or a setting within
// a subgroup. Unused trailing members are left as the nil GUID.
type Path struct {
	Scheme   types.GUID
	Subgroup types.GUID
	Setting  types.GUID
}

// SchemePath addresses a scheme.
func SchemePath(scheme types.GUID) Path {
	return Path{Scheme: scheme}
}

// SubgroupPath addresses a subgroup of a scheme.
func SubgroupPath(scheme, subgroup types.GUID) Path {
	return Path{Scheme: scheme, Subgroup: subgroup}
}

// SettingPath addresses a single setting.
func SettingPath(ref types.SettingRef) Path {
	return Path{Scheme: ref.Scheme, Subgroup: ref.Subgroup, Setting: ref.Setting}
}

// String renders the path as slash-separated GUIDs.
func (p Path) String() string {
	switch {
	case !p.Setting.IsZero():
		return p.Scheme.String() + "/" + p.Subgroup.String() + "/" + p.Setting.String()
	case !p.Subgroup.IsZero():
		return p.Scheme.String() + "/" + p.Subgroup.String()
	default:
		return p.Scheme.String()
	}
}

var (
	// ErrNoMoreItems marks the end of an enumeration.
	ErrNoMoreItems = errors.New("no more items")

	// ErrNotSupported is returned by Native on platforms without powrprof.dll.
	ErrNotSupported = errors.New("power configuration is not supported on this platform")

	// ErrNameUnavailable is returned when an entry carries no friendly name
	// or description.
	ErrNameUnavailable = errors.New("name unavailable")
)

// Win32 error codes shared by Native and Memory.
const (
	codeFileNotFound     uint32 = 2
	codeAccessDenied     uint32 = 5
	codeInvalidParameter uint32 = 87
)

// CallError is a failed power configuration call.
type CallError struct {
	// Op is the native function name, e.g. "PowerReadACValueIndex".
	Op string
	// Code is the Win32 error code the call returned.
	Code uint32
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s failed: error code %d (0x%x)", e.Op, e.Code, e.Code)
}

// Unwrap exposes the code as a syscall.Errno so callers on Windows can match
// it against windows.ERROR_* values.
func (e *CallError) Unwrap() error {
	return syscall.Errno(e.Code)
}

// IsCallError reports whether err carries a CallError with the given code.
func IsCallError(err error, code uint32) bool {
	var ce *CallError
	return errors.As(err, &ce) && ce.Code == code
}

// Operation names used in CallError.Op and for failure injection.
const (
	OpEnumerate        = "PowerEnumerate"
	OpReadFriendlyName = "PowerReadFriendlyName"
	OpReadDescription  = "PowerReadDescription"
	OpReadACValue      = "PowerReadACValueIndex"
	OpReadDCValue      = "PowerReadDCValueIndex"
	OpWriteACValue     = "PowerWriteACValueIndex"
	OpWriteDCValue     = "PowerWriteDCValueIndex"
	OpGetActiveScheme  = "PowerGetActiveScheme"
	OpSetActiveScheme  = "PowerSetActiveScheme"
)

// ReadOp returns the read operation name for rail.
func ReadOp(rail types.Rail) string {
	if rail == types.DC {
		return OpReadDCValue
	}
	return OpReadACValue
}

// WriteOp returns the write operation name for rail.
func WriteOp(rail types.Rail) string {
	if rail == types.DC {
		return OpWriteDCValue
	}
	return OpWriteACValue
}

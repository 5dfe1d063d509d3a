//go:build !windows

package powercfg

import "github.com/jamesainslie/powerinfo/pkg/powerinfo/types"

// Native is the powrprof.dll backend. Outside Windows every call returns
// ErrNotSupported.
type Native struct{}

var _ API = (*Native)(nil)

// NewNative returns the platform backend.
func NewNative() *Native {
	return &Native{}
}

// EnumerateSchemes implements API.
func (*Native) EnumerateSchemes(uint32) (types.GUID, error) {
	return types.NilGUID, ErrNotSupported
}

// EnumerateSubgroups implements API.
func (*Native) EnumerateSubgroups(types.GUID, uint32) (types.GUID, error) {
	return types.NilGUID, ErrNotSupported
}

// EnumerateSettings implements API.
func (*Native) EnumerateSettings(types.GUID, types.GUID, uint32) (types.GUID, error) {
	return types.NilGUID, ErrNotSupported
}

// ReadFriendlyName implements API.
func (*Native) ReadFriendlyName(Path) (string, error) { return "", ErrNotSupported }

// ReadDescription implements API.
func (*Native) ReadDescription(Path) (string, error) { return "", ErrNotSupported }

// ReadValue implements API.
func (*Native) ReadValue(types.Rail, types.SettingRef) (uint32, error) { return 0, ErrNotSupported }

// WriteValue implements API.
func (*Native) WriteValue(types.Rail, types.SettingRef, uint32) error { return ErrNotSupported }

// ActiveScheme implements API.
func (*Native) ActiveScheme() (types.GUID, error) { return types.NilGUID, ErrNotSupported }

// SetActiveScheme implements API.
func (*Native) SetActiveScheme(types.GUID) error { return ErrNotSupported }

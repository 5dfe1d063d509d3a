//go:build windows

package powercfg

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// maxTextAttempts bounds the size-then-fetch loop when a name keeps growing
// between the two calls.
const maxTextAttempts = 4

// codeMoreData is the CallError code left when maxTextAttempts is exhausted.
const codeMoreData = uint32(windows.ERROR_MORE_DATA)

// Native is the powrprof.dll backed implementation of API.
type Native struct{}

var _ API = (*Native)(nil)

// NewNative returns the powrprof.dll backend.
func NewNative() *Native {
	return &Native{}
}

func toWindows(g types.GUID) windows.GUID {
	d1, d2, d3, d4 := g.Fields()
	return windows.GUID{Data1: d1, Data2: d2, Data3: d3, Data4: d4}
}

func fromWindows(g windows.GUID) types.GUID {
	return types.GUIDFromFields(g.Data1, g.Data2, g.Data3, g.Data4)
}

// optional converts g for an optional GUID parameter; the nil GUID maps to NULL.
func optional(g types.GUID) *windows.GUID {
	if g.IsZero() {
		return nil
	}
	w := toWindows(g)
	return &w
}

func callError(op string, err error) error {
	if err == nil {
		return nil
	}
	var errno windows.Errno
	if errors.As(err, &errno) {
		return &CallError{Op: op, Code: uint32(errno)}
	}
	return err
}

func (n *Native) enumerate(scheme, subgroup types.GUID, access, index uint32) (types.GUID, error) {
	var out windows.GUID
	size := uint32(unsafe.Sizeof(out))
	err := powerEnumerate(0, optional(scheme), optional(subgroup), access, index, (*byte)(unsafe.Pointer(&out)), &size)
	if errors.Is(err, windows.ERROR_NO_MORE_ITEMS) {
		return types.NilGUID, ErrNoMoreItems
	}
	if err != nil {
		return types.NilGUID, callError(OpEnumerate, err)
	}
	return fromWindows(out), nil
}

// EnumerateSchemes implements API.
func (n *Native) EnumerateSchemes(index uint32) (types.GUID, error) {
	return n.enumerate(types.NilGUID, types.NilGUID, accessScheme, index)
}

// EnumerateSubgroups implements API.
func (n *Native) EnumerateSubgroups(scheme types.GUID, index uint32) (types.GUID, error) {
	return n.enumerate(scheme, types.NilGUID, accessSubgroup, index)
}

// EnumerateSettings implements API.
func (n *Native) EnumerateSettings(scheme, subgroup types.GUID, index uint32) (types.GUID, error) {
	return n.enumerate(scheme, subgroup, accessIndividualSetting, index)
}

type textReader func(root windows.Handle, scheme, subgroup, setting *windows.GUID, buf *byte, size *uint32) error

// readText asks for the required size with a NULL buffer, then fetches into
// a buffer of that size, growing it again on ERROR_MORE_DATA.
func readText(op string, call textReader, p Path) (string, error) {
	scheme, subgroup, setting := optional(p.Scheme), optional(p.Subgroup), optional(p.Setting)

	var size uint32
	err := call(0, scheme, subgroup, setting, nil, &size)
	for range maxTextAttempts {
		if err != nil && !errors.Is(err, windows.ERROR_MORE_DATA) {
			return "", callError(op, err)
		}
		if size < 2 {
			return "", ErrNameUnavailable
		}

		buf := make([]uint16, (size+1)/2)
		got := uint32(len(buf) * 2)
		err = call(0, scheme, subgroup, setting, (*byte)(unsafe.Pointer(&buf[0])), &got)
		if err == nil {
			text := windows.UTF16ToString(buf)
			if text == "" {
				return "", ErrNameUnavailable
			}
			return text, nil
		}
		size = got
	}
	return "", callError(op, err)
}

// ReadFriendlyName implements API.
func (n *Native) ReadFriendlyName(p Path) (string, error) {
	return readText(OpReadFriendlyName, powerReadFriendlyName, p)
}

// ReadDescription implements API.
func (n *Native) ReadDescription(p Path) (string, error) {
	return readText(OpReadDescription, powerReadDescription, p)
}

// ReadValue implements API. The value is read as a DWORD index regardless of
// the type the setting declares.
func (n *Native) ReadValue(rail types.Rail, ref types.SettingRef) (uint32, error) {
	scheme, subgroup, setting := toWindows(ref.Scheme), toWindows(ref.Subgroup), toWindows(ref.Setting)

	var value uint32
	var err error
	if rail == types.DC {
		err = powerReadDCValueIndex(0, &scheme, &subgroup, &setting, &value)
	} else {
		err = powerReadACValueIndex(0, &scheme, &subgroup, &setting, &value)
	}
	if err != nil {
		return 0, callError(ReadOp(rail), err)
	}
	return value, nil
}

// WriteValue implements API.
func (n *Native) WriteValue(rail types.Rail, ref types.SettingRef, value uint32) error {
	scheme, subgroup, setting := toWindows(ref.Scheme), toWindows(ref.Subgroup), toWindows(ref.Setting)

	var err error
	if rail == types.DC {
		err = powerWriteDCValueIndex(0, &scheme, &subgroup, &setting, value)
	} else {
		err = powerWriteACValueIndex(0, &scheme, &subgroup, &setting, value)
	}
	return callError(WriteOp(rail), err)
}

// ActiveScheme implements API.
func (n *Native) ActiveScheme() (types.GUID, error) {
	var active *windows.GUID
	if err := powerGetActiveScheme(0, &active); err != nil {
		return types.NilGUID, callError(OpGetActiveScheme, err)
	}
	defer windows.LocalFree(windows.Handle(unsafe.Pointer(active))) //nolint:errcheck

	return fromWindows(*active), nil
}

// SetActiveScheme implements API.
func (n *Native) SetActiveScheme(scheme types.GUID) error {
	g := toWindows(scheme)
	return callError(OpSetActiveScheme, powerSetActiveScheme(0, &g))
}

package scheme

import (
	"errors"
	"fmt"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/logging"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/powercfg"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

var (
	// ErrSchemeNotFound is returned when no scheme has the requested name.
	ErrSchemeNotFound = errors.New("power scheme not found")

	// ErrSettingNotFound is returned when the scheme has no setting with the
	// requested name.
	ErrSettingNotFound = errors.New("power setting not found")

	// ErrActivateFailed is wrapped by Set when the value was written but the
	// scheme could not be made active.
	ErrActivateFailed = errors.New("value written but scheme activation failed")
)

// Accessor reads and writes setting values addressed by scheme and setting
// names. Names match exactly and case-sensitively; an unnamed entry matches
// its GUID string.
type Accessor struct {
	api  powercfg.API
	enum *Enumerator
	log  *logging.Logger
}

// NewAccessor returns an Accessor over api.
func NewAccessor(api powercfg.API) *Accessor {
	return &Accessor{api: api, enum: NewEnumerator(api), log: logging.Get("accessor")}
}

// FindSchemeByName returns the first scheme whose display name is name.
func (a *Accessor) FindSchemeByName(name string) (types.GUID, error) {
	for s := range a.enum.Schemes() {
		if s.Name == name {
			return s.GUID, nil
		}
	}
	return types.NilGUID, fmt.Errorf("%w: %q", ErrSchemeNotFound, name)
}

// FindSettingByName returns the subgroup and setting of the first setting in
// scheme whose display name is name.
func (a *Accessor) FindSettingByName(scheme types.GUID, name string) (subgroup, setting types.GUID, err error) {
	for sub := range a.enum.Subgroups(scheme) {
		for id := range a.enum.settingIDs(scheme, sub.GUID) {
			p := powercfg.SettingPath(types.SettingRef{Scheme: scheme, Subgroup: sub.GUID, Setting: id})
			if a.enum.name(p, id) == name {
				return sub.GUID, id, nil
			}
		}
	}
	return types.NilGUID, types.NilGUID, fmt.Errorf("%w: %q", ErrSettingNotFound, name)
}

// Lookup resolves a scheme name and setting name to a SettingRef.
func (a *Accessor) Lookup(profile, setting string) (types.SettingRef, error) {
	scheme, err := a.FindSchemeByName(profile)
	if err != nil {
		return types.SettingRef{}, err
	}
	subgroup, id, err := a.FindSettingByName(scheme, setting)
	if err != nil {
		return types.SettingRef{}, fmt.Errorf("in scheme %q: %w", profile, err)
	}
	return types.SettingRef{Scheme: scheme, Subgroup: subgroup, Setting: id}, nil
}

// Get reads the rail value of a setting addressed by names.
func (a *Accessor) Get(profile, setting string, rail types.Rail) (uint32, error) {
	ref, err := a.Lookup(profile, setting)
	if err != nil {
		return 0, err
	}
	v, err := a.api.ReadValue(rail, ref)
	if err != nil {
		return 0, fmt.Errorf("reading %s value of %q: %w", rail, setting, err)
	}
	return v, nil
}

// Set writes the rail value of a setting addressed by names and then makes
// its scheme the active one. If the write succeeds but activation fails the
// returned error wraps ErrActivateFailed.
//
// Set addresses a single rail and keeps no old values; callers that journal
// changes or write both rails use Lookup with Write and Activate instead.
func (a *Accessor) Set(profile, setting string, value uint32, rail types.Rail) error {
	ref, err := a.Lookup(profile, setting)
	if err != nil {
		return err
	}
	if err := a.Write(ref, rail, value); err != nil {
		return fmt.Errorf("writing %s value of %q: %w", rail, setting, err)
	}
	return a.Activate(ref.Scheme)
}

// Read returns the rail value of the setting addressed by ref.
func (a *Accessor) Read(ref types.SettingRef, rail types.Rail) (uint32, error) {
	return a.api.ReadValue(rail, ref)
}

// Write stores value on one rail without changing the active scheme.
// The new value takes effect once the scheme is (re)activated.
func (a *Accessor) Write(ref types.SettingRef, rail types.Rail, value uint32) error {
	if err := a.api.WriteValue(rail, ref, value); err != nil {
		return err
	}
	a.log.Info("value written", "scheme", ref.Scheme, "setting", ref.Setting, "rail", rail, "value", value)
	return nil
}

// Activate makes scheme the active scheme.
func (a *Accessor) Activate(scheme types.GUID) error {
	if err := a.api.SetActiveScheme(scheme); err != nil {
		a.log.Warn("activating scheme failed", "scheme", scheme, "error", err)
		return fmt.Errorf("%w: %w", ErrActivateFailed, err)
	}
	a.log.Info("scheme activated", "scheme", scheme)
	return nil
}

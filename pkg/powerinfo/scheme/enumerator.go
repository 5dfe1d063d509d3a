// Package scheme walks the scheme, subgroup and setting hierarchy of the
// power configuration store and resolves user-facing names to identifiers.
//
// Nothing is cached: every call enumerates from index 0 against the store,
// so results always reflect its current state.
package scheme

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/logging"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/powercfg"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// Enumerator lists schemes and their settings.
type Enumerator struct {
	api powercfg.API
	log *logging.Logger
}

// NewEnumerator returns an Enumerator reading from api.
func NewEnumerator(api powercfg.API) *Enumerator {
	return &Enumerator{api: api, log: logging.Get("scheme")}
}

// Probe reports whether the store can be enumerated at all. It returns nil
// for an empty store.
func (e *Enumerator) Probe() error {
	_, err := e.api.EnumerateSchemes(0)
	if err == nil || errors.Is(err, powercfg.ErrNoMoreItems) {
		return nil
	}
	return err
}

// ids yields identifiers from next(0), next(1), ... until the first call
// that does not succeed. Anything other than ErrNoMoreItems is logged.
func (e *Enumerator) ids(level string, next func(uint32) (types.GUID, error)) iter.Seq[types.GUID] {
	return func(yield func(types.GUID) bool) {
		for i := uint32(0); ; i++ {
			id, err := next(i)
			if err != nil {
				if !errors.Is(err, powercfg.ErrNoMoreItems) {
					e.log.Warn("enumeration stopped", "level", level, "index", i, "error", err)
				}
				return
			}
			if !yield(id) {
				return
			}
		}
	}
}

// name returns the friendly name at p, or the GUID string of id when the
// name cannot be read.
func (e *Enumerator) name(p powercfg.Path, id types.GUID) string {
	name, err := e.api.ReadFriendlyName(p)
	if err != nil {
		e.log.Warn("friendly name unavailable, using GUID", "path", p, "error", err)
		return id.String()
	}
	return name
}

func (e *Enumerator) description(p powercfg.Path) string {
	desc, err := e.api.ReadDescription(p)
	switch {
	case errors.Is(err, powercfg.ErrNameUnavailable):
		e.log.Debug("no description", "path", p)
	case err != nil:
		e.log.Warn("description unavailable", "path", p, "error", err)
	}
	return desc
}

// Schemes yields registered schemes in store order. Names never are empty.
func (e *Enumerator) Schemes() iter.Seq[types.Scheme] {
	return func(yield func(types.Scheme) bool) {
		for id := range e.ids("scheme", e.api.EnumerateSchemes) {
			p := powercfg.SchemePath(id)
			s := types.Scheme{GUID: id, Name: e.name(p, id), Description: e.description(p)}
			if !yield(s) {
				return
			}
		}
	}
}

// ListSchemes collects Schemes.
func (e *Enumerator) ListSchemes() []types.Scheme {
	return slices.Collect(e.Schemes())
}

// Subgroups yields the subgroups of scheme in store order.
func (e *Enumerator) Subgroups(scheme types.GUID) iter.Seq[types.Subgroup] {
	return func(yield func(types.Subgroup) bool) {
		next := func(i uint32) (types.GUID, error) { return e.api.EnumerateSubgroups(scheme, i) }
		for id := range e.ids("subgroup", next) {
			if !yield(types.Subgroup{GUID: id, Name: e.name(powercfg.SubgroupPath(scheme, id), id)}) {
				return
			}
		}
	}
}

func (e *Enumerator) settingIDs(scheme, subgroup types.GUID) iter.Seq[types.GUID] {
	next := func(i uint32) (types.GUID, error) { return e.api.EnumerateSettings(scheme, subgroup, i) }
	return e.ids("setting", next)
}

// Settings yields every setting of s, subgroup by subgroup, with both rail
// values read. A failed read marks only that value as types.ValueError.
func (e *Enumerator) Settings(s types.Scheme) iter.Seq[types.SettingInfo] {
	return func(yield func(types.SettingInfo) bool) {
		for sub := range e.Subgroups(s.GUID) {
			for id := range e.settingIDs(s.GUID, sub.GUID) {
				if !yield(e.info(s, sub, id)) {
					return
				}
			}
		}
	}
}

func (e *Enumerator) info(s types.Scheme, sub types.Subgroup, id types.GUID) types.SettingInfo {
	ref := types.SettingRef{Scheme: s.GUID, Subgroup: sub.GUID, Setting: id}
	p := powercfg.SettingPath(ref)

	info := types.SettingInfo{
		Ref:          ref,
		SchemeName:   s.Name,
		SubgroupName: sub.Name,
		Name:         e.name(p, id),
		Description:  e.description(p),
	}
	info.ACValue = e.value(types.AC, ref)
	info.DCValue = e.value(types.DC, ref)
	return info
}

func (e *Enumerator) value(rail types.Rail, ref types.SettingRef) string {
	v, err := e.api.ReadValue(rail, ref)
	if err != nil {
		e.log.Warn("reading value failed", "rail", rail, "setting", ref.Setting, "error", err)
	}
	return types.FormatValue(v, err)
}

// ListSettings collects Settings.
func (e *Enumerator) ListSettings(s types.Scheme) []types.SettingInfo {
	return slices.Collect(e.Settings(s))
}

// IndexByName keys schemes by display name. When two schemes share a name
// the later one wins and each overwritten scheme is reported as a collision.
func IndexByName(schemes []types.Scheme) (map[string]types.Scheme, []types.NameCollision) {
	index := make(map[string]types.Scheme, len(schemes))
	var collisions []types.NameCollision
	for _, s := range schemes {
		if prev, ok := index[s.Name]; ok {
			collisions = append(collisions, types.NameCollision{Name: s.Name, Kept: s.GUID, Dropped: prev.GUID})
		}
		index[s.Name] = s
	}
	return index, collisions
}

// ActiveScheme returns the active scheme and its processor throttle bounds.
// An error is returned only when the scheme or its name cannot be read.
// An unreadable throttle value is reported as types.ValueError in its own
// field; it never turns into a name failure, so the report still shows
// the profile instead of "Failed to retrieve power profile name.".
func (e *Enumerator) ActiveScheme() (types.ActiveScheme, error) {
	id, err := e.api.ActiveScheme()
	if err != nil {
		return types.ActiveScheme{}, fmt.Errorf("reading active scheme: %w", err)
	}

	p := powercfg.SchemePath(id)
	name, err := e.api.ReadFriendlyName(p)
	if err != nil {
		return types.ActiveScheme{}, fmt.Errorf("reading name of active scheme %s: %w", id, err)
	}

	throttle := func(setting types.GUID, rail types.Rail) string {
		return e.value(rail, types.SettingRef{
			Scheme:   id,
			Subgroup: types.ProcessorSettingsSubgroupGUID,
			Setting:  setting,
		})
	}

	return types.ActiveScheme{
		Scheme:        types.Scheme{GUID: id, Name: name, Description: e.description(p)},
		ThrottleMinAC: throttle(types.ProcessorThrottleMinimumGUID, types.AC),
		ThrottleMinDC: throttle(types.ProcessorThrottleMinimumGUID, types.DC),
		ThrottleMaxAC: throttle(types.ProcessorThrottleMaximumGUID, types.AC),
		ThrottleMaxDC: throttle(types.ProcessorThrottleMaximumGUID, types.DC),
	}, nil
}

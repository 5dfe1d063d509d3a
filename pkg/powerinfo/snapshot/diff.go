package snapshot

import (
	"errors"
	"fmt"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/history"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// Kind classifies a Difference.
type Kind string

// Difference kinds.
const (
	Changed Kind = "changed"
	Added   Kind = "added"
	Removed Kind = "removed"
)

// Difference is one rail value that differs between two snapshots.
// Settings are matched by GUID, never by name. For Added the From value is
// empty; for Removed the To value is empty.
type Difference struct {
	Kind        Kind             `json:"kind" yaml:"kind"`
	Ref         types.SettingRef `json:"ref" yaml:"ref"`
	SchemeName  string           `json:"scheme_name" yaml:"scheme_name"`
	SettingName string           `json:"setting_name" yaml:"setting_name"`
	Rail        types.Rail       `json:"rail" yaml:"rail"`
	From        string           `json:"from,omitempty" yaml:"from,omitempty"`
	To          string           `json:"to,omitempty" yaml:"to,omitempty"`
}

func (s *Snapshot) index() map[types.SettingRef]types.SettingInfo {
	idx := make(map[types.SettingRef]types.SettingInfo)
	for _, st := range s.Schemes {
		for _, info := range st.Settings {
			idx[info.Ref] = info
		}
	}
	return idx
}

// Diff lists the rail values that differ from a to b, in b's order followed
// by settings only present in a.
func Diff(a, b *Snapshot) []Difference {
	from := a.index()
	var out []Difference

	seen := make(map[types.SettingRef]bool)
	for _, st := range b.Schemes {
		for _, info := range st.Settings {
			seen[info.Ref] = true
			old, ok := from[info.Ref]
			for _, rail := range types.Rails {
				d := Difference{
					Ref:         info.Ref,
					SchemeName:  info.SchemeName,
					SettingName: info.Name,
					Rail:        rail,
					To:          info.Value(rail),
				}
				switch {
				case !ok:
					d.Kind = Added
				case old.Value(rail) != info.Value(rail):
					d.Kind = Changed
					d.From = old.Value(rail)
				default:
					continue
				}
				out = append(out, d)
			}
		}
	}

	for _, st := range a.Schemes {
		for _, info := range st.Settings {
			if seen[info.Ref] {
				continue
			}
			for _, rail := range types.Rails {
				out = append(out, Difference{
					Kind:        Removed,
					Ref:         info.Ref,
					SchemeName:  info.SchemeName,
					SettingName: info.Name,
					Rail:        rail,
					From:        info.Value(rail),
				})
			}
		}
	}
	return out
}

// ErrNothingToRestore is returned by Restore when the live state already
// matches the snapshot.
var ErrNothingToRestore = errors.New("nothing to restore")

// RestoreChanges returns the writes that bring live back to snap: every
// changed value whose snapshot value is numeric. Settings missing from live
// cannot be recreated and are skipped.
func RestoreChanges(live, snap *Snapshot) []history.Change {
	var changes []history.Change
	for _, d := range Diff(live, snap) {
		if d.Kind != Changed {
			continue
		}
		v, err := types.ParseValue(d.To)
		if err != nil {
			continue
		}
		changes = append(changes, history.Change{
			Ref:         d.Ref,
			SchemeName:  d.SchemeName,
			SettingName: d.SettingName,
			Rail:        d.Rail,
			New:         v,
		})
	}
	return changes
}

// Restore writes the values of snap that differ from live and then
// re-activates the scheme that was active when snap was taken.
func Restore(t history.Target, live, snap *Snapshot) ([]history.Change, error) {
	changes := RestoreChanges(live, snap)
	if len(changes) == 0 && (snap.Active.IsZero() || snap.Active == live.Active) {
		return nil, ErrNothingToRestore
	}

	applied, err := history.Run(t, changes, false)
	if err != nil {
		return applied, err
	}
	if !snap.Active.IsZero() {
		if err := t.Activate(snap.Active); err != nil {
			return applied, fmt.Errorf("activating %s: %w", snap.Active, err)
		}
	}
	return applied, nil
}

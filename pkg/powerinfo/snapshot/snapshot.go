// Package snapshot captures the settings of every power scheme and keeps the
// captures in a Badger database so they can be compared and restored later.
package snapshot

import (
	"time"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/scheme"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// Snapshot is the captured state of all schemes at one point in time.
type Snapshot struct {
	ID        string        `json:"id" yaml:"id"`
	Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	Active    types.GUID    `json:"active" yaml:"active"`
	Schemes   []SchemeState `json:"schemes" yaml:"schemes"`
}

// SchemeState is one scheme with all of its settings.
type SchemeState struct {
	Scheme   types.Scheme        `json:"scheme" yaml:"scheme"`
	Settings []types.SettingInfo `json:"settings" yaml:"settings"`
}

// Summary is the listing form of a Snapshot.
type Summary struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Schemes   int       `json:"schemes" yaml:"schemes"`
	Settings  int       `json:"settings" yaml:"settings"`
}

// Summary returns the listing form of s.
func (s *Snapshot) Summary() Summary {
	sum := Summary{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt, Schemes: len(s.Schemes)}
	for _, st := range s.Schemes {
		sum.Settings += len(st.Settings)
	}
	return sum
}

// Capture reads every scheme and setting through e. An unreadable active
// scheme leaves Active as the nil GUID.
func Capture(e *scheme.Enumerator, name string) *Snapshot {
	snap := &Snapshot{Name: name, CreatedAt: time.Now().UTC()}
	if active, err := e.ActiveScheme(); err == nil {
		snap.Active = active.Scheme.GUID
	}
	for s := range e.Schemes() {
		snap.Schemes = append(snap.Schemes, SchemeState{Scheme: s, Settings: e.ListSettings(s)})
	}
	return snap
}

// Package history keeps a journal of the value changes powerinfo makes so
// they can be listed and undone.
package history

import (
	"time"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// OperationType names the command that produced an entry.
type OperationType string

const (
	// OpSet is a Set command.
	OpSet OperationType = "set"
	// OpApply is a plan application.
	OpApply OperationType = "apply"
	// OpRestore is a snapshot restore.
	OpRestore OperationType = "restore"
	// OpUndo reverts an earlier entry.
	OpUndo OperationType = "undo"
)

// Entry is one journaled operation. Source is the plan file, snapshot ID or
// reverted entry ID that produced it, if any.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation OperationType `json:"operation"`
	Source    string        `json:"source,omitempty"`
	Changes   []Change      `json:"changes"`
	Summary   Summary       `json:"summary"`
}

// Change is a single rail write. Old holds the value read before the write
// (types.ValueError if it could not be read). Error is set when the write
// failed.
type Change struct {
	Ref         types.SettingRef `json:"ref"`
	SchemeName  string           `json:"scheme_name"`
	SettingName string           `json:"setting_name"`
	Rail        types.Rail       `json:"rail"`
	Old         string           `json:"old"`
	New         uint32           `json:"new"`
	Error       string           `json:"error,omitempty"`
}

// Applied reports whether the write succeeded.
func (c Change) Applied() bool {
	return c.Error == ""
}

// Summary counts the outcome of an entry's changes.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

func summarize(changes []Change) Summary {
	s := Summary{Total: len(changes)}
	for _, c := range changes {
		if c.Applied() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

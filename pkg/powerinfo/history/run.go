package history

import (
	"errors"
	"fmt"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// Target is the power configuration a batch of changes is written to.
// scheme.Accessor implements it.
type Target interface {
	Read(ref types.SettingRef, rail types.Rail) (uint32, error)
	Write(ref types.SettingRef, rail types.Rail, value uint32) error
	Activate(scheme types.GUID) error
}

// Run writes each change in order, capturing the previous value first, and
// returns the changes with Old and Error filled in. A failed write does not
// stop the batch. When activate is true every scheme with at least one
// successful write is activated afterwards; activation failures are joined
// into the returned error.
func Run(t Target, changes []Change, activate bool) ([]Change, error) {
	out := make([]Change, len(changes))
	for i, c := range changes {
		c.Old = types.FormatValue(t.Read(c.Ref, c.Rail))
		c.Error = ""
		if err := t.Write(c.Ref, c.Rail, c.New); err != nil {
			c.Error = err.Error()
		}
		out[i] = c
	}

	if !activate {
		return out, nil
	}

	var errs []error
	entry := Entry{Changes: out}
	for _, scheme := range entry.Schemes() {
		if err := t.Activate(scheme); err != nil {
			errs = append(errs, fmt.Errorf("activating %s: %w", scheme, err))
		}
	}
	return out, errors.Join(errs...)
}

// Undo reverts the entry with the given ID, activates the affected schemes
// and records the reversal as an OpUndo entry.
func (j *Journal) Undo(t Target, id string) (*Entry, error) {
	entry, err := j.Get(id)
	if err != nil {
		return nil, err
	}
	reverse, err := entry.Reverse()
	if err != nil {
		return nil, err
	}

	applied, runErr := Run(t, reverse, true)
	recorded, err := j.Record(OpUndo, entry.ID, applied)
	if err != nil {
		return nil, errors.Join(runErr, err)
	}
	return recorded, runErr
}

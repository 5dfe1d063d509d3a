package history

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

var (
	// ErrEntryNotFound is returned by Get for an unknown ID.
	ErrEntryNotFound = errors.New("history entry not found")

	// ErrNothingToUndo is returned when an entry has no change that can be
	// reverted.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Journal stores entries as one JSON file each in a directory.
type Journal struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// New creates a Journal rooted at dir. The directory is created on the first
// Record.
func New(dir string) (*Journal, error) {
	if dir == "" {
		return nil, errors.New("history directory cannot be empty")
	}
	return &Journal{dir: dir, now: time.Now}, nil
}

// Dir returns the journal directory.
func (j *Journal) Dir() string {
	return j.dir
}

// Record persists a new entry and returns it.
func (j *Journal) Record(op OperationType, source string, changes []Change) (*Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now().UTC()
	entry := &Entry{
		ID:        generateID(op, now),
		Timestamp: now,
		Operation: op,
		Source:    source,
		Changes:   changes,
		Summary:   summarize(changes),
	}

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	if err := j.writeEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to write history entry: %w", err)
	}
	return entry, nil
}

func (j *Journal) writeEntry(entry *Entry) error {
	path := filepath.Join(j.dir, entry.ID+".json")

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// List returns entries newest first. A limit of 0 or less returns all.
// Unreadable files are skipped.
func (j *Journal) List(limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.readAll()
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (j *Journal) readAll() ([]Entry, error) {
	files, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	entries := []Entry{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		entry, err := readEntryFile(filepath.Join(j.dir, f.Name()))
		if err != nil {
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Get returns the entry with the given ID. A unique ID prefix is accepted.
func (j *Journal) Get(id string) (*Entry, error) {
	if id == "" {
		return nil, errors.New("entry ID cannot be empty")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	entry, err := readEntryFile(filepath.Join(j.dir, id+".json"))
	if err == nil {
		return entry, nil
	}

	entries, err := j.readAll()
	if err != nil {
		return nil, err
	}
	var found *Entry
	for i := range entries {
		if !strings.HasPrefix(entries[i].ID, id) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("ambiguous entry ID prefix %q", id)
		}
		found = &entries[i]
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return found, nil
}

func readEntryFile(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return &entry, nil
}

// Cleanup removes entries recorded more than retention ago and returns how
// many were removed. A retention of 0 or less removes nothing.
func (j *Journal) Cleanup(retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.readAll()
	if err != nil {
		return 0, err
	}

	cutoff := j.now().Add(-retention)
	removed := 0
	for _, e := range entries {
		if !e.Timestamp.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.dir, e.ID+".json")); err != nil {
			continue
		}
		removed++
	}
	return removed, nil
}

// Reverse returns the changes that undo e: every applied change whose old
// value is known, in reverse order, with Old and New swapped.
func (e *Entry) Reverse() ([]Change, error) {
	var out []Change
	for _, c := range slices.Backward(e.Changes) {
		if !c.Applied() {
			continue
		}
		old, err := strconv.ParseUint(c.Old, 10, 32)
		if err != nil {
			continue
		}
		out = append(out, Change{
			Ref:         c.Ref,
			SchemeName:  c.SchemeName,
			SettingName: c.SettingName,
			Rail:        c.Rail,
			Old:         strconv.FormatUint(uint64(c.New), 10),
			New:         uint32(old),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNothingToUndo, e.ID)
	}
	return out, nil
}

// Schemes returns the distinct schemes touched by applied changes, in first
// appearance order.
func (e *Entry) Schemes() []types.GUID {
	var out []types.GUID
	for _, c := range e.Changes {
		if c.Applied() && !slices.Contains(out, c.Ref.Scheme) {
			out = append(out, c.Ref.Scheme)
		}
	}
	return out
}

// generateID creates a unique ID like "set-2024-06-15T10-30-00-abc123def456".
func generateID(op OperationType, ts time.Time) string {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		suffix = fmt.Appendf(nil, "%06d", ts.Nanosecond()%1000000)
	}
	return fmt.Sprintf("%s-%s-%s", op, ts.Format("2006-01-02T15-04-05"), hex.EncodeToString(suffix))
}

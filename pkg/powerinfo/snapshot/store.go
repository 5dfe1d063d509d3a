package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Key prefixes.
const (
	prefixSnapshot = "s:" // s:<id> -> Snapshot JSON
	prefixName     = "n:" // n:<name> -> id
	schemaKey      = "m:__schema__"
)

// CurrentSchemaVersion is written to new stores.
const CurrentSchemaVersion = 1

var (
	// ErrNotFound is returned when no snapshot matches a reference.
	ErrNotFound = errors.New("snapshot not found")

	// ErrAmbiguous is returned when an ID prefix matches several snapshots.
	ErrAmbiguous = errors.New("ambiguous snapshot reference")

	// ErrNameTaken is returned by Save when another snapshot has the name.
	ErrNameTaken = errors.New("snapshot name already in use")

	// ErrSchemaVersion is returned when the store was written by a newer
	// version.
	ErrSchemaVersion = errors.New("unsupported snapshot store version")
)

// Schema holds database schema information.
type Schema struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists snapshots in a Badger database.
type Store struct {
	db *badger.DB
}

// Open opens or creates a store in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}

	s := &Store{db: db}
	if err := s.checkSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) checkSchema() error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(schemaKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			data, err := json.Marshal(Schema{Version: CurrentSchemaVersion, UpdatedAt: time.Now().UTC()})
			if err != nil {
				return err
			}
			return txn.Set([]byte(schemaKey), data)
		}
		if err != nil {
			return err
		}

		var schema Schema
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &schema)
		}); err != nil {
			return fmt.Errorf("reading schema: %w", err)
		}
		if schema.Version > CurrentSchemaVersion {
			return fmt.Errorf("%w: %d", ErrSchemaVersion, schema.Version)
		}
		return nil
	})
}

// Save stores snap, assigning an ID and creation time when missing.
func (s *Store) Save(snap *Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if snap.Name != "" {
			item, err := txn.Get([]byte(prefixName + snap.Name))
			switch {
			case err == nil:
				var owner string
				if err := item.Value(func(val []byte) error {
					owner = string(val)
					return nil
				}); err != nil {
					return err
				}
				if owner != snap.ID {
					return fmt.Errorf("%w: %q", ErrNameTaken, snap.Name)
				}
			case !errors.Is(err, badger.ErrKeyNotFound):
				return err
			}
			if err := txn.Set([]byte(prefixName+snap.Name), []byte(snap.ID)); err != nil {
				return err
			}
		}
		return txn.Set([]byte(prefixSnapshot+snap.ID), data)
	})
}

// Get returns the snapshot referenced by ref: a name, a full ID or a unique
// ID prefix.
func (s *Store) Get(ref string) (*Snapshot, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	var snap *Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := resolve(txn, ref)
		if err != nil {
			return err
		}
		item, err := txn.Get([]byte(prefixSnapshot + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			snap = &Snapshot{}
			return json.Unmarshal(val, snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func resolve(txn *badger.Txn, ref string) (string, error) {
	if item, err := txn.Get([]byte(prefixName + ref)); err == nil {
		var id string
		err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
		return id, err
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return "", err
	}

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := []byte(prefixSnapshot + ref)
	var match string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		id := strings.TrimPrefix(string(it.Item().Key()), prefixSnapshot)
		if id == ref {
			return id, nil
		}
		if match != "" {
			return "", fmt.Errorf("%w: %s", ErrAmbiguous, ref)
		}
		match = id
	}
	if match == "" {
		return "", badger.ErrKeyNotFound
	}
	return match, nil
}

// List returns all snapshots newest first.
func (s *Store) List() ([]Summary, error) {
	summaries := []Summary{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixSnapshot)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var snap Snapshot
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &snap)
			}); err != nil {
				return err
			}
			summaries = append(summaries, snap.Summary())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	slices.SortFunc(summaries, func(a, b Summary) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return summaries, nil
}

// Delete removes the snapshot referenced by ref and returns its ID.
func (s *Store) Delete(ref string) (string, error) {
	snap, err := s.Get(ref)
	if err != nil {
		return "", err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if snap.Name != "" {
			if err := txn.Delete([]byte(prefixName + snap.Name)); err != nil {
				return err
			}
		}
		return txn.Delete([]byte(prefixSnapshot + snap.ID))
	})
	if err != nil {
		return "", fmt.Errorf("deleting snapshot %s: %w", snap.ID, err)
	}
	return snap.ID, nil
}

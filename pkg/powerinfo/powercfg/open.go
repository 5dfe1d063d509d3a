package powercfg

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendNative = "native"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown backend")

// Open returns the backend named by backend. An empty name selects native.
//
// The memory backend is seeded from fixture when one is given, and then
// persists mutations back to it; otherwise it starts from DefaultFixture and
// keeps changes only for the life of the process.
func Open(backend, fixture string) (API, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendNative:
		return NewNative(), nil
	case BackendMemory:
		if fixture == "" {
			return NewMemory(DefaultFixture())
		}
		return OpenMemoryFile(fixture)
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownBackend, backend, BackendNative, BackendMemory)
	}
}

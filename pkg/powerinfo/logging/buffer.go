package logging

import "sync"

// DefaultBufferSize is the number of entries kept in TUI mode.
const DefaultBufferSize = 100

// LogBuffer is a fixed-size ring of recent entries.
type LogBuffer struct {
	mu    sync.RWMutex
	ring  []Entry
	next  int
	count int
}

// NewLogBuffer creates a buffer holding up to size entries.
// A non-positive size selects DefaultBufferSize.
func NewLogBuffer(size int) *LogBuffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &LogBuffer{ring: make([]Entry, size)}
}

// Add appends an entry, overwriting the oldest when full.
func (b *LogBuffer) Add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ring[b.next] = e
	b.next = (b.next + 1) % len(b.ring)
	if b.count < len(b.ring) {
		b.count++
	}
}

// Last returns up to n of the newest entries, oldest first.
func (b *LogBuffer) Last(n int) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n = min(max(n, 0), b.count)
	out := make([]Entry, n)
	first := b.next - n
	if first < 0 {
		first += len(b.ring)
	}
	for i := range out {
		out[i] = b.ring[(first+i)%len(b.ring)]
	}
	return out
}

// Entries returns every buffered entry, oldest first.
func (b *LogBuffer) Entries() []Entry {
	return b.Last(b.Len())
}

// Len returns the number of buffered entries.
func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

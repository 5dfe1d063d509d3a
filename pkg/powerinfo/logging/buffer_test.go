package logging

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func messages(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestLogBuffer_Wraps(t *testing.T) {
	b := NewLogBuffer(3)
	for i := range 5 {
		b.Add(Entry{Message: fmt.Sprintf("m%d", i)})
	}

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []string{"m2", "m3", "m4"}, messages(b.Entries()))
	assert.Equal(t, []string{"m3", "m4"}, messages(b.Last(2)))
}

func TestLogBuffer_LastBounds(t *testing.T) {
	b := NewLogBuffer(10)
	b.Add(Entry{Message: "only"})

	assert.Equal(t, []string{"only"}, messages(b.Last(5)))
	assert.Empty(t, b.Last(-1))
}

func TestNewLogBuffer_DefaultSize(t *testing.T) {
	b := NewLogBuffer(0)
	for range DefaultBufferSize + 7 {
		b.Add(Entry{})
	}
	assert.Equal(t, DefaultBufferSize, b.Len())
}

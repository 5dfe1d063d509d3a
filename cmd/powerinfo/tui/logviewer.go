package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/logging"
)

// filterEntriesByLevel returns entries at or above minLevel.
func filterEntriesByLevel(entries []logging.Entry, minLevel logging.Level) []logging.Entry {
	result := make([]logging.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Level >= minLevel {
			result = append(result, e)
		}
	}
	return result
}

// clampLogScroll keeps the scroll offset within bounds.
func clampLogScroll(offset, totalEntries, visibleRows int) int {
	if totalEntries <= visibleRows || offset < 0 {
		return 0
	}
	return min(offset, totalEntries-visibleRows)
}

func logLevelStyle(level logging.Level) lipgloss.Style {
	switch level {
	case logging.LevelDebug:
		return logDebugStyle
	case logging.LevelWarn:
		return logWarnStyle
	case logging.LevelError:
		return logErrorStyle
	default:
		return logInfoStyle
	}
}

func logLevelChar(level logging.Level) string {
	switch level {
	case logging.LevelDebug:
		return "D"
	case logging.LevelInfo:
		return "I"
	case logging.LevelWarn:
		return "W"
	case logging.LevelError:
		return "E"
	default:
		return "?"
	}
}

// LogViewerState holds the state of the log pane.
type LogViewerState struct {
	Open         bool
	Source       *logging.LogBuffer
	FilterLevel  logging.Level
	ScrollOffset int
}

// NewLogViewerState creates a closed log pane reading from source.
func NewLogViewerState(source *logging.LogBuffer) *LogViewerState {
	return &LogViewerState{Source: source, FilterLevel: logging.LevelDebug}
}

// Toggle opens or closes the pane.
func (s *LogViewerState) Toggle() {
	s.Open = !s.Open
}

// SetFilterLevel sets the minimum level shown and resets scrolling.
func (s *LogViewerState) SetFilterLevel(level logging.Level) {
	s.FilterLevel = level
	s.ScrollOffset = 0
}

// Entries returns the buffered entries at or above the filter level.
func (s *LogViewerState) Entries() []logging.Entry {
	if s.Source == nil {
		return nil
	}
	return filterEntriesByLevel(s.Source.Entries(), s.FilterLevel)
}

// ScrollUp scrolls up by one line.
func (s *LogViewerState) ScrollUp() {
	if s.ScrollOffset > 0 {
		s.ScrollOffset--
	}
}

// ScrollDown scrolls down by one line.
func (s *LogViewerState) ScrollDown(visibleRows int) {
	if s.ScrollOffset < len(s.Entries())-visibleRows {
		s.ScrollOffset++
	}
}

// View renders the pane in width columns and height rows.
func (s *LogViewerState) View(width, height int) string {
	if height < 3 {
		return ""
	}

	var b strings.Builder
	title := titleStyle.Render(fmt.Sprintf(" Logs [%s] ", s.FilterLevel))
	b.WriteString(title + mutedTextStyle.Render("[1-4] filter  [L] close"))
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	visibleRows := max(height-2, 1)
	entries := s.Entries()
	if len(entries) == 0 {
		b.WriteString(mutedTextStyle.Render("  no log entries"))
		return b.String()
	}

	offset := clampLogScroll(s.ScrollOffset, len(entries), visibleRows)
	end := min(offset+visibleRows, len(entries))
	for _, e := range entries[offset:end] {
		b.WriteString(renderLogEntry(e, width))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// renderLogEntry renders "HH:MM:SS [L] component: message".
func renderLogEntry(e logging.Entry, width int) string {
	comp := truncate(e.Component, 10)
	prefixWidth := 8 + 1 + 3 + 1 + len(comp) + 2
	msg := truncate(e.Message, max(width-prefixWidth, 10))

	return fmt.Sprintf("%s %s %s: %s",
		logTimeStyle.Render(e.Time.Format("15:04:05")),
		logLevelStyle(e.Level).Render("["+logLevelChar(e.Level)+"]"),
		logComponentStyle.Render(comp),
		msg)
}

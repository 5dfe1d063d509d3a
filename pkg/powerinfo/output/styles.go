package output

import "github.com/charmbracelet/lipgloss"

// ANSI 256-color palette shared by the pretty formatter and the browse view.
const (
	ColorPrimary = lipgloss.Color("39")
	ColorSuccess = lipgloss.Color("42")
	ColorWarning = lipgloss.Color("214")
	ColorDanger  = lipgloss.Color("196")
	ColorMuted   = lipgloss.Color("245")
)

var (
	// HeaderBox frames the system summary.
	HeaderBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1).
			MarginBottom(1)

	// SchemeStyle renders scheme names.
	SchemeStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// ActiveBadge marks the active scheme.
	ActiveBadge = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)

	// SubgroupStyle renders subgroup names.
	SubgroupStyle = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)

	LabelStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	ValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorDanger)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/history"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/logging"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/scheme"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// AppState represents the current view of the application.
type AppState int

const (
	StateLoading AppState = iota
	StateSchemes
	StateSettings
	StateEdit
)

// logPaneHeight is the number of rows used by the open log pane.
const logPaneHeight = 8

// Options configures the TUI application.
type Options struct {
	Enumerator *scheme.Enumerator
	Accessor   *scheme.Accessor
	Cores      types.CoreTypeCounts
	Logs       *logging.LogBuffer

	// OnChange receives every batch of attempted writes, e.g. to journal it.
	OnChange func([]history.Change)
}

// Model is the Bubble Tea model of the browser.
type Model struct {
	state   AppState
	options Options
	log     *logging.Logger

	spinner spinner.Model
	input   textinput.Model
	logs    *LogViewerState

	schemes   []types.Scheme
	active    types.ActiveScheme
	activeErr error
	schemeRow listCursor

	current    types.Scheme
	settings   []types.SettingInfo
	settingRow listCursor

	editRail  types.Rail
	status    string
	statusErr bool

	width  int
	height int
}

// Messages produced by commands.
type (
	schemesLoadedMsg struct {
		schemes   []types.Scheme
		active    types.ActiveScheme
		activeErr error
	}

	settingsLoadedMsg struct {
		scheme   types.Scheme
		settings []types.SettingInfo
	}

	valueWrittenMsg struct {
		changes []history.Change
		err     error
	}

	logTickMsg struct{}
)

// NewModel creates the browser model.
func NewModel(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	in := textinput.New()
	in.Placeholder = "value"
	in.CharLimit = 12
	in.Width = 14

	return Model{
		state:   StateLoading,
		options: opts,
		log:     logging.Get("tui"),
		spinner: s,
		input:   in,
		logs:    NewLogViewerState(opts.Logs),
		width:   80,
		height:  24,
	}
}

// Init starts loading the scheme list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadSchemes())
}

func (m Model) loadSchemes() tea.Cmd {
	e := m.options.Enumerator
	return func() tea.Msg {
		active, err := e.ActiveScheme()
		return schemesLoadedMsg{schemes: e.ListSchemes(), active: active, activeErr: err}
	}
}

func (m Model) loadSettings(s types.Scheme) tea.Cmd {
	e := m.options.Enumerator
	return func() tea.Msg {
		return settingsLoadedMsg{scheme: s, settings: e.ListSettings(s)}
	}
}

// writeValue writes one rail and activates the setting's scheme.
func (m Model) writeValue(info types.SettingInfo, rail types.Rail, value uint32) tea.Cmd {
	acc, onChange := m.options.Accessor, m.options.OnChange
	return func() tea.Msg {
		changes, err := history.Run(acc, []history.Change{{
			Ref:         info.Ref,
			SchemeName:  info.SchemeName,
			SettingName: info.Name,
			Rail:        rail,
			New:         value,
		}}, true)
		if onChange != nil {
			onChange(changes)
		}
		return valueWrittenMsg{changes: changes, err: err}
	}
}

func tickLogs() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg { return logTickMsg{} })
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.schemeRow.clamp(len(m.schemes), m.visibleRows())
		m.settingRow.clamp(len(m.settings), m.visibleRows())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case schemesLoadedMsg:
		m.schemes = msg.schemes
		m.active = msg.active
		m.activeErr = msg.activeErr
		m.schemeRow.clamp(len(m.schemes), m.visibleRows())
		if m.state == StateLoading {
			m.state = StateSchemes
		}
		if msg.activeErr != nil {
			m.log.Warn("active scheme unavailable", "error", msg.activeErr)
		}
		return m, nil

	case settingsLoadedMsg:
		if m.current.GUID != msg.scheme.GUID {
			m.settingRow.reset()
		}
		m.current = msg.scheme
		m.settings = msg.settings
		m.settingRow.clamp(len(m.settings), m.visibleRows())
		if m.state == StateSchemes {
			m.state = StateSettings
		}
		return m, nil

	case valueWrittenMsg:
		m.status, m.statusErr = describeWrite(msg)
		return m, tea.Batch(m.loadSchemes(), m.loadSettings(m.current))

	case logTickMsg:
		if m.logs.Open {
			return m, tickLogs()
		}
		return m, nil
	}

	if m.state == StateEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func describeWrite(msg valueWrittenMsg) (string, bool) {
	if len(msg.changes) == 0 {
		return "nothing written", true
	}
	c := msg.changes[0]
	if !c.Applied() {
		return fmt.Sprintf("Failed to set %s value of %s: %s", c.Rail, c.SettingName, c.Error), true
	}
	status := fmt.Sprintf("%s value of %s set to %d (was %s)", c.Rail, c.SettingName, c.New, c.Old)
	if msg.err != nil {
		return status + "; activation failed: " + msg.err.Error(), true
	}
	return status, false
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.state == StateEdit {
		return m.handleEditKey(msg)
	}

	if key == "L" {
		m.logs.Toggle()
		if m.logs.Open {
			return m, tickLogs()
		}
		return m, nil
	}
	if m.logs.Open {
		switch key {
		case "1", "2", "3", "4":
			m.logs.SetFilterLevel(logging.Level(key[0] - '1'))
			return m, nil
		case "[":
			m.logs.ScrollUp()
			return m, nil
		case "]":
			m.logs.ScrollDown(logPaneHeight - 2)
			return m, nil
		}
	}

	switch m.state {
	case StateLoading:
		if key == "q" || key == "esc" {
			return m, tea.Quit
		}

	case StateSchemes:
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "r":
			return m, m.loadSchemes()
		case "enter", "right", "l":
			if len(m.schemes) > 0 {
				m.status = ""
				return m, m.loadSettings(m.schemes[m.schemeRow.cursor])
			}
		default:
			m.schemeRow.move(key, len(m.schemes), m.visibleRows())
		}

	case StateSettings:
		switch key {
		case "q":
			return m, tea.Quit
		case "esc", "backspace", "left", "h":
			m.state = StateSchemes
			m.status = ""
		case "r":
			return m, m.loadSettings(m.current)
		case "enter", "a":
			return m.startEdit(types.AC)
		case "d":
			return m.startEdit(types.DC)
		default:
			m.settingRow.move(key, len(m.settings), m.visibleRows())
		}
	}
	return m, nil
}

func (m Model) startEdit(rail types.Rail) (tea.Model, tea.Cmd) {
	if len(m.settings) == 0 {
		return m, nil
	}
	m.state = StateEdit
	m.editRail = rail
	m.status = ""
	m.input.SetValue(m.editValue())
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// editValue is the current value of the edited rail, or "" when unreadable.
func (m Model) editValue() string {
	v, ok := m.settings[m.settingRow.cursor].Uint(m.editRail)
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = StateSettings
		m.input.Blur()
		return m, nil
	case "tab":
		m.editRail = 1 - m.editRail
		m.input.SetValue(m.editValue())
		m.input.CursorEnd()
		return m, nil
	case "enter":
		value, err := types.ParseValue(m.input.Value())
		if err != nil {
			m.status, m.statusErr = err.Error(), true
			return m, nil
		}
		m.state = StateSettings
		m.input.Blur()
		info := m.settings[m.settingRow.cursor]
		m.log.Info("writing value", "scheme", info.SchemeName, "setting", info.Name, "rail", m.editRail, "value", value)
		return m, m.writeValue(info, m.editRail, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// visibleRows is the number of list rows that fit the window.
func (m Model) visibleRows() int {
	// header, divider, title, divider, list, divider, detail, status, hints, border
	rows := m.height - 10
	if m.logs != nil && m.logs.Open {
		rows -= logPaneHeight
	}
	return max(rows, 3)
}

// View renders the current state.
func (m Model) View() string {
	contentWidth := max(m.width-4, 40)

	var b strings.Builder
	b.WriteString(renderAppHeader(len(m.schemes), m.activeName(), m.options.Cores))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")

	switch m.state {
	case StateLoading:
		b.WriteString(fmt.Sprintf("\n  %s Reading power profiles...\n", m.spinner.View()))
	case StateSchemes:
		b.WriteString(m.renderSchemes(contentWidth))
	case StateSettings, StateEdit:
		b.WriteString(m.renderSettings(contentWidth))
	}

	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	if m.status != "" {
		style := successTextStyle
		if m.statusErr {
			style = errorTextStyle
		}
		b.WriteString(style.Render("  " + truncate(m.status, contentWidth-2)))
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelpBar())

	if m.logs.Open {
		b.WriteString("\n")
		b.WriteString(m.logs.View(contentWidth, logPaneHeight))
	}

	return outerBoxStyle.Width(max(m.width-2, 0)).Render(b.String())
}

func (m Model) activeName() string {
	if m.activeErr != nil {
		return ""
	}
	return m.active.Scheme.Name
}

func (m Model) renderSchemes(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("  Power profiles"))
	b.WriteString("\n")

	if len(m.schemes) == 0 {
		b.WriteString("\n")
		b.WriteString(center(mutedTextStyle.Render("No power profiles found."), width))
		b.WriteString("\n\n")
		return b.String()
	}

	rows := m.visibleRows()
	for i := m.schemeRow.offset; i < min(m.schemeRow.offset+rows, len(m.schemes)); i++ {
		s := m.schemes[i]
		mark := "  "
		if m.activeErr == nil && s.GUID == m.active.Scheme.GUID {
			mark = activeMarkStyle.Render("● ")
		}
		line := fmt.Sprintf("%s%-*s  %s", mark, 30, truncate(s.Name, 30), mutedTextStyle.Render(s.GUID.String()))
		b.WriteString(m.renderRow(i == m.schemeRow.cursor, line))
		b.WriteString("\n")
	}

	b.WriteString(renderDivider(width))
	b.WriteString("\n")
	desc := m.schemes[m.schemeRow.cursor].Description
	b.WriteString(mutedTextStyle.Render("  " + truncate(desc, width-2)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderSettings(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("  " + m.current.Name))
	b.WriteString(mutedTextStyle.Render(fmt.Sprintf("  %d settings", len(m.settings))))
	b.WriteString("\n")

	if len(m.settings) == 0 {
		b.WriteString("\n")
		b.WriteString(center(mutedTextStyle.Render("This profile has no settings."), width))
		b.WriteString("\n\n")
		return b.String()
	}

	nameWidth := max(width-28, 20)
	header := fmt.Sprintf("  %-*s  %10s  %10s", nameWidth, "SETTING", "AC", "DC")
	b.WriteString(mutedTextStyle.Render(header))
	b.WriteString("\n")

	rows := m.visibleRows()
	for i := m.settingRow.offset; i < min(m.settingRow.offset+rows, len(m.settings)); i++ {
		s := m.settings[i]
		name := truncate(s.SubgroupName+" / "+s.Name, nameWidth)
		line := fmt.Sprintf("%-*s  %s  %s", nameWidth, name, valueStyle.Render(s.ACValue), valueStyle.Render(s.DCValue))
		b.WriteString(m.renderRow(i == m.settingRow.cursor, line))
		b.WriteString("\n")
	}

	b.WriteString(renderDivider(width))
	b.WriteString("\n")
	sel := m.settings[m.settingRow.cursor]
	if m.state == StateEdit {
		prompt := fmt.Sprintf("%s value for %s: ", m.editRail, truncate(sel.Name, 40))
		b.WriteString(editBoxStyle.Render(prompt + m.input.View()))
	} else {
		b.WriteString(subgroupStyle.Render("  " + sel.SubgroupName))
		if sel.Description != "" {
			b.WriteString(mutedTextStyle.Render("  " + truncate(sel.Description, width-len(sel.SubgroupName)-4)))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderRow(selected bool, line string) string {
	if selected {
		return cursorStyle.Render("▸ ") + selectedItemStyle.Render(line)
	}
	return "  " + normalItemStyle.Render(line)
}

func (m Model) renderHelpBar() string {
	switch m.state {
	case StateSchemes:
		return renderHints([2]string{"↑↓", "Move"}, [2]string{"Enter", "Open"}, [2]string{"r", "Reload"}, [2]string{"L", "Logs"}, [2]string{"q", "Quit"})
	case StateSettings:
		return renderHints([2]string{"↑↓", "Move"}, [2]string{"a", "Edit AC"}, [2]string{"d", "Edit DC"}, [2]string{"Esc", "Back"}, [2]string{"L", "Logs"}, [2]string{"q", "Quit"})
	case StateEdit:
		return renderHints([2]string{"Enter", "Write"}, [2]string{"Tab", "AC/DC"}, [2]string{"Esc", "Cancel"})
	default:
		return renderHints([2]string{"q", "Quit"})
	}
}

// Run starts the TUI application.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

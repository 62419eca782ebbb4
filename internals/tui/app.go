// Package tui renders the issue settings panel in the terminal.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jadenj13/triage/internals/settings"
)

// Model is the bubbletea model for the settings panel.
type Model struct {
	ctx     context.Context
	panel   *settings.Panel
	sheets  *Sheets
	dismiss func()

	keys   KeyMap
	styles Styles
	help   help.Model

	cursor int
	width  int
	height int
}

// New creates a Model. sheets must be the Prompter the panel was built
// with; dismiss clears the store's error line.
func New(ctx context.Context, panel *settings.Panel, sheets *Sheets, dismiss func()) *Model {
	return &Model{
		ctx:     ctx,
		panel:   panel,
		sheets:  sheets,
		dismiss: dismiss,
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
		help:    help.New(),
	}
}

// Init mounts the panel, which starts the label fetch.
func (m *Model) Init() tea.Cmd {
	m.panel.Mount(m.ctx)
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case MsgStoreChanged:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.sheets.Active() {
			return m, m.handleSheetKey(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleSheetKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sheets.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.sheets.move(1)
	case key.Matches(msg, m.keys.Select):
		m.sheets.choose()
		m.clampCursor()
	case key.Matches(msg, m.keys.Dismiss), msg.String() == "q":
		m.sheets.cancel()
	case msg.String() == "ctrl+c":
		return tea.Quit
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		rows := m.rows()
		if m.cursor < len(rows) {
			m.panel.Activate(m.ctx, rows[m.cursor])
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.ApplyLabel):
		m.panel.AddLabel(m.ctx)
	case key.Matches(msg, m.keys.AssignSelf):
		m.panel.AssignSelf(m.ctx)
	case key.Matches(msg, m.keys.ToggleLock):
		m.panel.ToggleLock(m.ctx)
	case key.Matches(msg, m.keys.ToggleState):
		m.panel.ToggleState(m.ctx)
	case key.Matches(msg, m.keys.Dismiss):
		if m.dismiss != nil {
			m.dismiss()
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// rows flattens the selectable rows of the panel view in display order.
func (m *Model) rows() []settings.Row {
	var rows []settings.Row
	for _, s := range m.panel.View().Sections {
		rows = append(rows, s.Rows...)
		rows = append(rows, s.Buttons...)
	}
	return rows
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

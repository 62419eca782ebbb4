package tui

import (
	"fmt"
	"strings"

	"github.com/jadenj13/triage/internals/issue"
	"github.com/jadenj13/triage/internals/settings"
)

func (m *Model) View() string {
	v := m.panel.View()
	var b strings.Builder

	b.WriteString(m.renderHeader(v))
	b.WriteString("\n")

	index := 0
	for _, section := range v.Sections {
		b.WriteString(m.styles.SectionTitle.Render(section.Title))
		b.WriteString("\n")
		if section.EmptyMessage != "" {
			b.WriteString(m.styles.Empty.Render(section.EmptyMessage))
			b.WriteString("\n")
		}
		for _, row := range section.Rows {
			b.WriteString(m.renderRow(row, index == m.cursor))
			b.WriteString("\n")
			index++
		}
		for _, row := range section.Buttons {
			b.WriteString(m.renderRow(row, index == m.cursor))
			b.WriteString("\n")
			index++
		}
	}

	if m.sheets.Active() {
		b.WriteString(m.renderSheet(m.sheets.current))
		b.WriteString("\n")
	}

	if v.Err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("error: " + v.Err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderHeader(v settings.View) string {
	title := fmt.Sprintf("#%d", v.Issue.Number)
	if v.Issue.Title != "" {
		title += " " + v.Issue.Title
	}

	state := m.styles.ToneStyle(settings.ToneSuccess).Render(string(v.Issue.State))
	if v.Issue.State != issue.StateOpen {
		state = m.styles.ToneStyle(settings.ToneDanger).Render(string(v.Issue.State))
	}
	parts := []string{title, state}
	if v.Issue.Locked {
		parts = append(parts, "locked")
	}
	if v.Busy {
		parts = append(parts, m.styles.Busy.Render("saving…"))
	}
	return m.styles.Header.Render(strings.Join(parts, "  "))
}

func (m *Model) renderRow(row settings.Row, selected bool) string {
	marker := "  "
	if selected {
		marker = m.styles.Cursor.Render("> ")
	}

	var text string
	switch row.Kind {
	case settings.RowLabel:
		text = m.styles.LabelStyle(row.Color).Render(row.Title) + "  ×"
	case settings.RowAssignee:
		text = "@" + row.Title + "  ×"
	case settings.RowApplyLabel, settings.RowAssignSelf:
		text = m.styles.Button.Render("+ " + row.Title)
	default:
		text = m.styles.ToneStyle(row.Tone).Render(row.Title)
	}
	return marker + text
}

func (m *Model) renderSheet(sheet *actionSheet) string {
	var b strings.Builder
	b.WriteString(m.styles.SheetTitle.Render(sheet.prompt.Title))
	b.WriteString("\n")
	for i, opt := range sheet.prompt.Options {
		style := m.styles.SheetOption
		if i == sheet.prompt.DestructiveIndex {
			style = style.Inherit(m.styles.SheetDestructive)
		}
		if i == sheet.cursor {
			b.WriteString(m.styles.SheetSelected.Render("> ") + style.UnsetPaddingLeft().Render(opt))
		} else {
			b.WriteString(style.Render(opt))
		}
		if i < len(sheet.prompt.Options)-1 {
			b.WriteString("\n")
		}
	}
	return m.styles.Sheet.Render(b.String())
}

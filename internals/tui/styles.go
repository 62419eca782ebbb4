package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jadenj13/triage/internals/settings"
)

// Colors holds the palette.
var Colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Red     lipgloss.Color
	Green   lipgloss.Color
	Warning lipgloss.Color
}{
	Primary: lipgloss.Color("#7C3AED"),
	Muted:   lipgloss.Color("#6B7280"),
	Border:  lipgloss.Color("#374151"),
	Red:     lipgloss.Color("#EF4444"),
	Green:   lipgloss.Color("#22C55E"),
	Warning: lipgloss.Color("#F59E0B"),
}

type Styles struct {
	Header       lipgloss.Style
	SectionTitle lipgloss.Style
	Row          lipgloss.Style
	Cursor       lipgloss.Style
	Button       lipgloss.Style
	Empty        lipgloss.Style
	Busy         lipgloss.Style
	Error        lipgloss.Style
	Badge        lipgloss.Style

	Sheet            lipgloss.Style
	SheetTitle       lipgloss.Style
	SheetOption      lipgloss.Style
	SheetSelected    lipgloss.Style
	SheetDestructive lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:       lipgloss.NewStyle().Bold(true).MarginBottom(1),
		SectionTitle: lipgloss.NewStyle().Foreground(Colors.Muted).Bold(true).MarginTop(1),
		Row:          lipgloss.NewStyle().PaddingLeft(2),
		Cursor:       lipgloss.NewStyle().Foreground(Colors.Primary).Bold(true),
		Button:       lipgloss.NewStyle().Foreground(Colors.Primary),
		Empty:        lipgloss.NewStyle().Foreground(Colors.Muted).Italic(true).PaddingLeft(2),
		Busy:         lipgloss.NewStyle().Foreground(Colors.Warning),
		Error:        lipgloss.NewStyle().Foreground(Colors.Red).Bold(true),
		Badge:        lipgloss.NewStyle().Padding(0, 1),

		Sheet: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Border).
			Padding(0, 1).
			MarginTop(1),
		SheetTitle:       lipgloss.NewStyle().Bold(true).MarginBottom(1),
		SheetOption:      lipgloss.NewStyle().PaddingLeft(2),
		SheetSelected:    lipgloss.NewStyle().Foreground(Colors.Primary).Bold(true),
		SheetDestructive: lipgloss.NewStyle().Foreground(Colors.Red),
	}
}

// ToneStyle colors action rows by tone.
func (s Styles) ToneStyle(t settings.Tone) lipgloss.Style {
	switch t {
	case settings.ToneDanger:
		return lipgloss.NewStyle().Foreground(Colors.Red)
	case settings.ToneSuccess:
		return lipgloss.NewStyle().Foreground(Colors.Green)
	default:
		return lipgloss.NewStyle()
	}
}

// LabelStyle renders a label chip in the label's own color.
func (s Styles) LabelStyle(color string) lipgloss.Style {
	st := s.Badge
	if color == "" {
		return st.Foreground(Colors.Muted)
	}
	return st.Background(lipgloss.Color("#" + color)).Foreground(lipgloss.Color("#000000"))
}

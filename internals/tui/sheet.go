package tui

import "github.com/jadenj13/triage/internals/settings"

var _ settings.Prompter = (*Sheets)(nil)

type actionSheet struct {
	done   func(int)
	prompt settings.Prompt
	cursor int
}

// Sheets is the in-terminal action sheet. It implements settings.Prompter;
// Show only records the prompt and the model draws it on the next frame.
type Sheets struct {
	current *actionSheet
}

func NewSheets() *Sheets {
	return &Sheets{}
}

// Show replaces any open sheet, cancelling it first.
func (s *Sheets) Show(p settings.Prompt, done func(int)) {
	if s.current != nil {
		s.resolve(s.current.prompt.CancelIndex)
	}
	s.current = &actionSheet{prompt: p, done: done}
}

func (s *Sheets) Active() bool {
	return s.current != nil
}

func (s *Sheets) move(delta int) {
	n := len(s.current.prompt.Options)
	if n == 0 {
		return
	}
	s.current.cursor = (s.current.cursor + delta + n) % n
}

func (s *Sheets) choose() {
	s.resolve(s.current.cursor)
}

func (s *Sheets) cancel() {
	s.resolve(s.current.prompt.CancelIndex)
}

func (s *Sheets) resolve(index int) {
	sheet := s.current
	s.current = nil
	sheet.done(index)
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Messages emitted by searchModel.

type searchQueryMsg struct {
	query string
}

type closeSearchMsg struct{}

// searchModel is a Bubble Tea sub-model for entering a notmuch query.
// Results land in the thread list, so the overlay is just the prompt.
type searchModel struct {
	input  textinput.Model
	active bool
	width  int
}

func newSearch() searchModel {
	ti := textinput.New()
	ti.Placeholder = "notmuch query, e.g. tag:inbox from:alice"
	ti.Prompt = "/ "
	ti.CharLimit = 256
	return searchModel{input: ti}
}

func (s searchModel) Update(msg tea.Msg) (searchModel, tea.Cmd) {
	if !s.active {
		return s, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Back):
			return s, func() tea.Msg { return closeSearchMsg{} }

		case key.Matches(msg, keys.Enter):
			q := s.input.Value()
			if q == "" {
				return s, nil
			}
			return s, func() tea.Msg { return searchQueryMsg{query: q} }
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s searchModel) View() string {
	if !s.active || s.width == 0 {
		return ""
	}
	return s.input.View()
}

// Open activates the prompt with the current query prefilled.
func (s *searchModel) Open(current string) {
	s.active = true
	s.input.SetValue(current)
	s.input.CursorEnd()
	s.input.Focus()
}

// Close deactivates the prompt.
func (s *searchModel) Close() {
	s.active = false
	s.input.SetValue("")
	s.input.Blur()
}

// SetSize updates the dimensions available for rendering.
func (s *searchModel) SetSize(w int) {
	s.width = w
	s.input.Width = w - 4 // account for prompt and padding
}

// IsActive reports whether the prompt is currently shown.
func (s searchModel) IsActive() bool {
	return s.active
}

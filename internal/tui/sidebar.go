package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bloovis/csup/internal/domain"
	"github.com/bloovis/csup/internal/store"
)

// querySelectedMsg is sent when the user picks a search via Enter.
type querySelectedMsg struct {
	query string
}

// builtinSearch is a standard label view always offered in the
// sidebar, ahead of the user's saved searches.
type builtinSearch struct {
	name  string
	query string
}

var builtinSearches = []builtinSearch{
	{"Inbox", "tag:" + domain.LabelInbox},
	{"Unread", "tag:" + domain.LabelUnread},
	{"Starred", "tag:" + domain.LabelStarred},
	{"Sent", "tag:" + domain.LabelSent},
	{"Drafts", "tag:" + domain.LabelDraft},
	{"Spam", "tag:" + domain.LabelSpam},
}

// sidebarModel displays the builtin label views plus the saved
// searches from the state database.
type sidebarModel struct {
	saved        []store.SavedSearch
	cursor       int
	activeQuery  string
	accountEmail string
	width        int
	height       int
	focused      bool
}

func newSidebar(initialQuery string) sidebarModel {
	return sidebarModel{
		activeQuery: initialQuery,
	}
}

// SetSearches updates the saved-search list shown below the builtins.
func (s *sidebarModel) SetSearches(saved []store.SavedSearch) {
	s.saved = saved
	if s.cursor >= s.totalItems() {
		s.cursor = 0
	}
}

// SetSize updates the sidebar dimensions.
func (s *sidebarModel) SetSize(w, h int) {
	s.width = w
	s.height = h
}

// Update handles key events for sidebar navigation.
func (s sidebarModel) Update(msg tea.Msg) (sidebarModel, tea.Cmd) {
	if !s.focused {
		return s, nil
	}

	total := s.totalItems()
	if total == 0 {
		return s, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			s.cursor--
			if s.cursor < 0 {
				s.cursor = total - 1
			}
		case key.Matches(msg, keys.Down):
			s.cursor++
			if s.cursor >= total {
				s.cursor = 0
			}
		case key.Matches(msg, keys.Enter):
			if query, ok := s.queryAtCursor(); ok {
				s.activeQuery = query
				return s, func() tea.Msg {
					return querySelectedMsg{query: query}
				}
			}
		}
	}

	return s, nil
}

// View renders the sidebar.
func (s sidebarModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("csup"))
	b.WriteString("\n")
	if s.accountEmail != "" {
		b.WriteString(mutedTextStyle.Render(truncate(s.accountEmail, max(s.width, 10))))
	}
	b.WriteString("\n")

	itemIdx := 0
	for _, bs := range builtinSearches {
		b.WriteString(s.renderLine(bs.name, bs.query, itemIdx))
		b.WriteString("\n")
		itemIdx++
	}

	if len(s.saved) > 0 {
		b.WriteString("\n")
		b.WriteString(mutedTextStyle.Render(strings.Repeat("─", max(s.width, 10))))
		b.WriteString("\n")
		b.WriteString(mutedTextStyle.Render("Searches:"))
		b.WriteString("\n")

		for _, sv := range s.saved {
			b.WriteString(s.renderLine(sv.Name, sv.Query, itemIdx))
			b.WriteString("\n")
			itemIdx++
		}
	}

	return b.String()
}

// renderLine renders one search line with cursor highlighting and the
// active-query marker.
func (s sidebarModel) renderLine(name, query string, idx int) string {
	prefix := "  "
	if query == s.activeQuery {
		prefix = "▶ "
	}

	line := fmt.Sprintf("%s%s", prefix, name)

	// Pad to width so highlight covers the full line.
	padded := lipgloss.NewStyle().Width(max(s.width, 10)).Render(line)

	if s.focused && idx == s.cursor {
		return selectedStyle.Render(padded)
	}

	return padded
}

// totalItems returns the number of navigable entries.
func (s sidebarModel) totalItems() int {
	return len(builtinSearches) + len(s.saved)
}

// queryAtCursor returns the query at the current cursor position.
func (s sidebarModel) queryAtCursor() (string, bool) {
	if s.cursor < 0 || s.cursor >= s.totalItems() {
		return "", false
	}
	if s.cursor < len(builtinSearches) {
		return builtinSearches[s.cursor].query, true
	}
	return s.saved[s.cursor-len(builtinSearches)].Query, true
}

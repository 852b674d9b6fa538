package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bloovis/csup/internal/domain"
	"github.com/bloovis/csup/internal/thread"
)

// Messages emitted by inboxModel.

type threadSelectedMsg struct {
	threadID string
}

type threadActionMsg struct {
	threadID string
	action   string
}

// inboxModel is a Bubble Tea sub-model that displays the thread list
// for the current query. It holds handles, never records: each redraw
// resolves through the cache, so label edits made anywhere show up on
// the next frame.
type inboxModel struct {
	handles []thread.Handle
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
}

func newInbox() inboxModel {
	return inboxModel{}
}

func (m inboxModel) Update(msg tea.Msg) (inboxModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustScroll()
			}

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.handles)-1 {
				m.cursor++
				m.adjustScroll()
			}

		case key.Matches(msg, keys.Enter):
			return m, m.selectThread()

		case key.Matches(msg, keys.Archive):
			return m, m.actionCmd("archive")

		case key.Matches(msg, keys.Trash):
			return m, m.actionCmd("trash")

		case key.Matches(msg, keys.Spam):
			return m, m.actionCmd("spam")

		case key.Matches(msg, keys.Star):
			return m, m.actionCmd("star")

		case key.Matches(msg, keys.Unread):
			return m, m.actionCmd("unread")
		}
	}

	return m, nil
}

func (m inboxModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if len(m.handles) == 0 {
		return mutedTextStyle.Render("No threads")
	}

	var b strings.Builder
	end := m.offset + m.visibleRows()
	if end > len(m.handles) {
		end = len(m.handles)
	}

	for i := m.offset; i < end; i++ {
		if i > m.offset {
			b.WriteByte('\n')
		}
		line := m.renderRow(i)
		if i == m.cursor && m.focused {
			line = selectedStyle.Width(m.width).Render(line)
		}
		b.WriteString(line)
	}

	return b.String()
}

// SetHandles replaces the thread list after a query runs.
func (m *inboxModel) SetHandles(handles []thread.Handle) {
	m.handles = handles
	m.clampCursor()
}

// SetSize updates the dimensions available for rendering.
func (m *inboxModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.adjustScroll()
}

// SelectedThreadID returns the id of the highlighted thread.
func (m inboxModel) SelectedThreadID() string {
	if len(m.handles) == 0 || m.cursor >= len(m.handles) {
		return ""
	}
	return m.handles[m.cursor].ID
}

// --- internal helpers ---

func (m inboxModel) visibleRows() int {
	if m.height < 1 {
		return 1
	}
	return m.height
}

func (m *inboxModel) adjustScroll() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *inboxModel) clampCursor() {
	if len(m.handles) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= len(m.handles) {
		m.cursor = len(m.handles) - 1
	}
	m.adjustScroll()
}

func (m inboxModel) selectThread() tea.Cmd {
	id := m.SelectedThreadID()
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		return threadSelectedMsg{threadID: id}
	}
}

func (m inboxModel) actionCmd(action string) tea.Cmd {
	id := m.SelectedThreadID()
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		return threadActionMsg{threadID: id, action: action}
	}
}

func (m inboxModel) renderRow(idx int) string {
	h := m.handles[idx]
	td, err := h.Data()
	if err != nil {
		return mutedTextStyle.Render(h.ID)
	}

	star := "  "
	if td.HasLabel(domain.LabelStarred) {
		star = starStyle.Render("★ ")
	}

	from := "Unknown"
	if authors := td.Authors(); len(authors) > 0 {
		from = authors[0].ShortName()
	}
	count := td.SizeWidget()
	date := td.DateWidget()

	fromWidth := 18
	countWidth := len(count)
	if countWidth > 0 {
		countWidth++ // leading space
	}
	dateWidth := len(date)
	subjectWidth := m.width - fromWidth - countWidth - dateWidth - 6 // star(2) + two "  " gaps(4)
	if subjectWidth < 10 {
		subjectWidth = 10
	}

	from = truncate(from, fromWidth)
	subject := truncate(td.Subject, subjectWidth)

	fromCol := lipgloss.NewStyle().Width(fromWidth).Render(from)
	countCol := ""
	if count != "" {
		countCol = mutedTextStyle.Render(" " + count)
	}
	subjectCol := lipgloss.NewStyle().Width(subjectWidth).Render(subject)
	dateCol := mutedTextStyle.Width(dateWidth).Render(date)

	line := star + fromCol + countCol + "  " + subjectCol + "  " + dateCol

	if td.HasLabel(domain.LabelUnread) {
		line = unreadStyle.Render(line)
	}

	return line
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

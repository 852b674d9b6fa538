package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bloovis/csup/internal/domain"
	"github.com/bloovis/csup/internal/thread"
)

type closeReaderMsg struct{}

// readerModel is a Bubble Tea sub-model that displays one thread's
// full message tree in a scrollable pane. It holds only the thread's
// handle; the tree is re-rendered from the cache on every change, so
// a forced reload or a label edit is reflected immediately.
type readerModel struct {
	handle       thread.Handle
	content      string
	scrollOffset int
	maxScroll    int
	width        int
	height       int
	focused      bool
	visible      bool
}

func newReader() readerModel {
	return readerModel{}
}

func (r readerModel) Update(msg tea.Msg) (readerModel, tea.Cmd) {
	if !r.focused || !r.visible {
		return r, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if r.scrollOffset > 0 {
				r.scrollOffset--
			}

		case key.Matches(msg, keys.Down):
			if r.scrollOffset < r.maxScroll {
				r.scrollOffset++
			}

		case key.Matches(msg, keys.Back):
			return r, func() tea.Msg {
				return closeReaderMsg{}
			}

		case key.Matches(msg, keys.Archive):
			return r, r.actionCmd("archive")

		case key.Matches(msg, keys.Trash):
			return r, r.actionCmd("trash")

		case key.Matches(msg, keys.Star):
			return r, r.actionCmd("star")

		case key.Matches(msg, keys.Unread):
			return r, r.actionCmd("unread")
		}
	}

	return r, nil
}

func (r readerModel) View() string {
	if !r.visible || r.width == 0 || r.height == 0 {
		return ""
	}
	if r.content == "" {
		return mutedTextStyle.Render("No thread selected")
	}

	lines := strings.Split(r.content, "\n")

	visibleHeight := r.height
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	start := r.scrollOffset
	if start > len(lines) {
		start = len(lines)
	}
	end := start + visibleHeight
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

// ShowThread displays the thread behind h.
func (r *readerModel) ShowThread(h thread.Handle) {
	r.handle = h
	r.visible = true
	r.scrollOffset = 0
	r.content = renderThread(h, r.width)
	r.recalcMaxScroll()
}

// Refresh re-renders the current thread from the cache.
func (r *readerModel) Refresh() {
	if !r.visible {
		return
	}
	r.content = renderThread(r.handle, r.width)
	r.recalcMaxScroll()
}

// Close hides the reader and clears its content.
func (r *readerModel) Close() {
	r.visible = false
	r.handle = thread.Handle{}
	r.content = ""
	r.scrollOffset = 0
	r.maxScroll = 0
}

// SetSize updates the reader dimensions and re-renders for the new
// width.
func (r *readerModel) SetSize(w, h int) {
	r.width = w
	r.height = h
	if r.visible {
		r.content = renderThread(r.handle, r.width)
	}
	r.recalcMaxScroll()
}

// IsVisible reports whether the reader pane is currently shown.
func (r readerModel) IsVisible() bool {
	return r.visible
}

// ThreadID returns the id of the displayed thread, or "".
func (r readerModel) ThreadID() string {
	if !r.visible {
		return ""
	}
	return r.handle.ID
}

// --- internal helpers ---

func (r readerModel) actionCmd(action string) tea.Cmd {
	id := r.ThreadID()
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		return threadActionMsg{threadID: id, action: action}
	}
}

func (r *readerModel) recalcMaxScroll() {
	if r.content == "" {
		r.maxScroll = 0
		r.scrollOffset = 0
		return
	}

	lines := strings.Split(r.content, "\n")
	visibleHeight := r.height
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	r.maxScroll = len(lines) - visibleHeight
	if r.maxScroll < 0 {
		r.maxScroll = 0
	}
	if r.scrollOffset > r.maxScroll {
		r.scrollOffset = r.maxScroll
	}
}

// renderThread formats the whole message tree, oldest at the top,
// replies indented under their parent.
func renderThread(h thread.Handle, width int) string {
	td, err := h.Data()
	if err != nil {
		return mutedTextStyle.Render("Thread not loaded")
	}

	sepWidth := width
	if sepWidth < 20 {
		sepWidth = 20
	}
	separator := mutedTextStyle.Render(strings.Repeat("─", sepWidth))

	var b strings.Builder
	b.WriteString(titleStyle.Render(td.Subject))
	b.WriteByte('\n')

	td.Walk(func(m *thread.Message, depth int, _ *thread.Message) bool {
		indent := strings.Repeat("  ", depth)

		b.WriteByte('\n')
		b.WriteString(separator)
		b.WriteByte('\n')
		b.WriteString(indent)
		b.WriteString(mutedTextStyle.Render("From: "))
		b.WriteString(m.From.String())
		b.WriteByte('\n')
		if len(m.To) > 0 {
			b.WriteString(indent)
			b.WriteString(mutedTextStyle.Render("To:   "))
			b.WriteString(renderPeople(m.To))
			b.WriteByte('\n')
		}
		if len(m.Cc) > 0 {
			b.WriteString(indent)
			b.WriteString(mutedTextStyle.Render("Cc:   "))
			b.WriteString(renderPeople(m.Cc))
			b.WriteByte('\n')
		}
		if m.Timestamp != 0 {
			b.WriteString(indent)
			b.WriteString(mutedTextStyle.Render("Date: "))
			b.WriteString(time.Unix(m.Timestamp, 0).Format("Jan 2, 2006 3:04 PM"))
			b.WriteByte('\n')
		}

		if len(m.Chunks) == 0 {
			b.WriteString(indent)
			b.WriteString(mutedTextStyle.Render("(no body loaded)"))
			b.WriteByte('\n')
			return true
		}

		b.WriteByte('\n')
		for _, chunk := range m.Chunks {
			for _, line := range chunk.Lines {
				b.WriteString(indent)
				if chunk.Quote {
					b.WriteString(quoteStyle.Render(line))
				} else {
					b.WriteString(line)
				}
				b.WriteByte('\n')
			}
		}
		return true
	})

	return strings.TrimRight(b.String(), "\n")
}

func renderPeople(people []domain.Person) string {
	parts := make([]string, len(people))
	for i, p := range people {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s", strings.Join(parts, ", "))
}

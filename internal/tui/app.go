// Package tui is the interactive front end: a Bubble Tea program laid
// out as a sidebar of searches, a thread list, and a thread reader.
//
// Index calls run synchronously inside Update. The thread cache is
// single-threaded and every index invocation is a blocking subprocess
// call that suspends the UI until it returns, so commands never touch
// the cache from another goroutine.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bloovis/csup/internal/config"
	"github.com/bloovis/csup/internal/domain"
	"github.com/bloovis/csup/internal/notmuch"
	"github.com/bloovis/csup/internal/store/sqlite"
	"github.com/bloovis/csup/internal/thread"
)

type pane int

const (
	paneSidebar pane = iota
	paneList
	paneReader
)

// --- root model ---

type model struct {
	cfg    *config.Config
	client *notmuch.Client
	cache  *thread.Cache
	db     *sqlite.DB

	query string

	sidebar sidebarModel
	inbox   inboxModel
	reader  readerModel
	search  searchModel

	activePane pane
	statusBar  statusBar

	width  int
	height int
}

func newModel(cfg *config.Config, client *notmuch.Client, cache *thread.Cache, db *sqlite.DB) model {
	inbox := newInbox()
	inbox.focused = true

	sidebar := newSidebar(cfg.UI.InitialQuery)
	sidebar.accountEmail = domain.Person{Name: cfg.Account.Name, Email: cfg.Account.Email}.String()
	if cfg.Account.Email == "" {
		sidebar.accountEmail = ""
	}

	return model{
		cfg:        cfg,
		client:     client,
		cache:      cache,
		db:         db,
		query:      cfg.UI.InitialQuery,
		activePane: paneList,
		sidebar:    sidebar,
		inbox:      inbox,
		reader:     newReader(),
		search:     newSearch(),
		statusBar:  newStatusBar(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return initialLoadMsg{}
	}
}

type initialLoadMsg struct{}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.width = msg.Width
		m.resizeSubModels()
		return m, nil

	case initialLoadMsg:
		m.loadSearches()
		m.loadThreads(m.query, false)
		return m, nil

	// --- sub-model emitted messages ---

	case querySelectedMsg:
		m.reader.Close()
		m.statusBar.readerVisible = false
		m.inbox.cursor = 0
		m.inbox.offset = 0
		m.setFocus(paneList)
		m.query = msg.query
		m.loadThreads(m.query, false)
		return m, nil

	case threadSelectedMsg:
		m.openThread(msg.threadID)
		return m, nil

	case threadActionMsg:
		m.applyAction(msg.threadID, msg.action)
		return m, nil

	case closeReaderMsg:
		m.reader.Close()
		m.statusBar.readerVisible = false
		m.setFocus(paneList)
		return m, nil

	case searchQueryMsg:
		m.search.Close()
		m.setFocus(paneList)
		m.query = msg.query
		m.inbox.cursor = 0
		m.inbox.offset = 0
		m.loadThreads(m.query, false)
		return m, nil

	case closeSearchMsg:
		m.search.Close()
		m.setFocus(paneList)
		return m, nil

	// --- key events ---
	case tea.KeyMsg:
		// Search prompt gets all key events when active.
		if m.search.IsActive() {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Search):
			m.search.Open(m.query)
			m.resizeSearch()
			return m, nil

		case key.Matches(msg, keys.Poll):
			m.poll()
			return m, nil

		case key.Matches(msg, keys.Reload):
			m.loadThreads(m.query, true)
			return m, nil

		case key.Matches(msg, keys.Tab):
			if m.reader.IsVisible() {
				if m.activePane == paneList {
					m.setFocus(paneReader)
				} else {
					m.setFocus(paneList)
				}
			} else {
				if m.activePane == paneSidebar {
					m.setFocus(paneList)
				} else {
					m.setFocus(paneSidebar)
				}
			}
			return m, nil
		}

		// Delegate to the focused sub-model.
		switch m.activePane {
		case paneSidebar:
			var cmd tea.Cmd
			m.sidebar, cmd = m.sidebar.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}

		case paneList:
			var cmd tea.Cmd
			m.inbox, cmd = m.inbox.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}

		case paneReader:
			var cmd tea.Cmd
			m.reader, cmd = m.reader.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebarWidth, contentWidth := m.layoutWidths()
	contentHeight := m.height - 3 // reserve space for status bar

	sidebarView := sidebarStyle.
		Width(sidebarWidth).
		Height(contentHeight).
		Render(m.sidebar.View())

	var contentView string

	switch {
	case m.search.IsActive():
		contentView = lipgloss.NewStyle().
			Width(contentWidth).
			Height(contentHeight).
			Render(m.search.View())

	case m.reader.IsVisible():
		// Split view: list on top, reader below.
		listHeight := contentHeight / 2
		readerHeight := contentHeight - listHeight

		listView := listStyle.
			Width(contentWidth).
			Height(listHeight).
			Render(m.inbox.View())

		readerView := readerStyle.
			Width(contentWidth).
			Height(readerHeight).
			Render(m.reader.View())

		contentView = lipgloss.JoinVertical(lipgloss.Left, listView, readerView)

	default:
		contentView = listStyle.
			Width(contentWidth).
			Height(contentHeight).
			Render(m.inbox.View())
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, sidebarView, contentView)
	sb := m.statusBar.View()

	return lipgloss.JoinVertical(lipgloss.Left, main, sb)
}

// --- focus management ---

func (m *model) setFocus(p pane) {
	m.activePane = p
	m.sidebar.focused = (p == paneSidebar)
	m.inbox.focused = (p == paneList)
	m.reader.focused = (p == paneReader)
}

// --- layout helpers ---

func (m model) layoutWidths() (sidebarWidth, contentWidth int) {
	sidebarWidth = m.width / 5
	if sidebarWidth < 20 {
		sidebarWidth = 20
	}
	contentWidth = m.width - sidebarWidth - 2
	return
}

func (m *model) resizeSubModels() {
	sidebarWidth, contentWidth := m.layoutWidths()
	contentHeight := m.height - 3

	// Pass content area dimensions (subtract border + padding from
	// each style).
	m.sidebar.SetSize(sidebarWidth-4, contentHeight-4)

	if m.reader.IsVisible() {
		listHeight := contentHeight / 2
		readerHeight := contentHeight - listHeight
		m.inbox.SetSize(contentWidth-4, listHeight-2)
		m.reader.SetSize(contentWidth-6, readerHeight-4)
	} else {
		m.inbox.SetSize(contentWidth-4, contentHeight-2)
	}

	m.resizeSearch()
}

func (m *model) resizeSearch() {
	_, contentWidth := m.layoutWidths()
	m.search.SetSize(contentWidth)
}

// --- index operations ---
//
// These run synchronously: the subprocess call suspends the UI, which
// is what keeps the cache's single-threaded contract honest.

func (m *model) loadThreads(query string, force bool) {
	list, err := thread.Load(context.Background(), m.cache, query, 0, m.cfg.UI.PageSize, thread.LoadOptions{Force: force})
	if err != nil {
		m.statusBar.setError(fmt.Sprintf("Error: %v", err))
		return
	}
	m.inbox.SetHandles(list.Handles)
	m.reader.Refresh()
	m.statusBar.setMessage(fmt.Sprintf("Loaded %d threads", list.Len()))
}

func (m *model) loadSearches() {
	saved, err := m.db.ListSearches(context.Background())
	if err != nil {
		m.statusBar.setError(fmt.Sprintf("Error: %v", err))
		return
	}
	m.sidebar.SetSearches(saved)
}

func (m *model) openThread(id string) {
	h := m.cache.Handle(id)
	if err := h.LoadBody(context.Background()); err != nil {
		m.statusBar.setError(fmt.Sprintf("Error: %v", err))
		return
	}

	// Opening a thread marks it read.
	if td, err := h.Data(); err == nil && td.HasLabel(domain.LabelUnread) {
		td.RemoveLabel(domain.LabelUnread)
		if err := td.Save(context.Background(), m.cache); err != nil {
			m.statusBar.setError(fmt.Sprintf("Error: %v", err))
			return
		}
	}

	m.reader.ShowThread(h)
	m.setFocus(paneReader)
	m.statusBar.readerVisible = true
	m.resizeSubModels()
	m.statusBar.setMessage(h.Subject())
}

func (m *model) applyAction(id, action string) {
	td, err := m.cache.Get(id)
	if err != nil {
		m.statusBar.setError(fmt.Sprintf("Error: %v", err))
		return
	}

	switch action {
	case "archive":
		td.RemoveLabel(domain.LabelInbox)
	case "trash":
		td.ApplyLabel(domain.LabelDeleted)
	case "spam":
		td.ApplyLabel(domain.LabelSpam)
	case "star":
		td.ToggleLabel(domain.LabelStarred)
	case "unread":
		td.ToggleLabel(domain.LabelUnread)
	default:
		m.statusBar.setError(fmt.Sprintf("Unknown action: %s", action))
		return
	}

	if err := td.Save(context.Background(), m.cache); err != nil {
		m.statusBar.setError(fmt.Sprintf("Error: %v", err))
		return
	}

	m.reader.Refresh()
	m.statusBar.setMessage(fmt.Sprintf("Applied %s to %s", action, truncate(td.Subject, 40)))

	// Threads that leave the current view go back to the list.
	if action == "archive" || action == "trash" || action == "spam" {
		if m.reader.ThreadID() == id {
			m.reader.Close()
			m.statusBar.readerVisible = false
			m.setFocus(paneList)
		}
		m.loadThreads(m.query, false)
	}
}

func (m *model) poll() {
	ctx := context.Background()

	m.statusBar.setMessage("Polling for new mail...")
	if err := m.client.Poll(ctx); err != nil {
		m.statusBar.setError(fmt.Sprintf("Error: %v", err))
		return
	}

	lastmod, err := m.client.Lastmod(ctx)
	if err != nil {
		m.statusBar.setError(fmt.Sprintf("Error: %v", err))
		return
	}
	watermark, err := m.db.Lastmod(ctx)
	if err != nil {
		m.statusBar.setError(fmt.Sprintf("Error: %v", err))
		return
	}

	if lastmod == watermark {
		m.statusBar.setMessage("No new mail")
		return
	}

	if err := m.db.SetLastmod(ctx, lastmod); err != nil {
		m.statusBar.setError(fmt.Sprintf("Error: %v", err))
		return
	}

	// The index changed under us: refetch everything in view.
	m.loadThreads(m.query, true)
	m.statusBar.setMessage(fmt.Sprintf("Index changed (revision %d -> %d)", watermark, lastmod))
}

// Run starts the Bubble Tea program.
func Run(cfg *config.Config, client *notmuch.Client, cache *thread.Cache, db *sqlite.DB) error {
	applyTheme(cfg.UI.Theme)
	prog := tea.NewProgram(
		newModel(cfg, client, cache, db),
		tea.WithAltScreen(),
	)
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("failed to run UI: %w", err)
	}
	return nil
}

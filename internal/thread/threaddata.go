package thread

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bloovis/csup/internal/domain"
	"github.com/bloovis/csup/internal/notmuch"
)

// ThreadData is the shared record for one thread: the message tree
// plus properties derived from it. For a given thread id at most one
// ThreadData exists process-wide at any time; the cache enforces this.
type ThreadData struct {
	ID      string
	Subject string

	root       *Message
	size       int
	dateWidget string
}

// NewThreadData parses a thread's "show" JSON (an array of message
// nodes) into a record. Normally the array holds exactly one top-level
// message; the index occasionally emits more, in which case the extras
// are attached as children of the first.
func NewThreadData(raw json.RawMessage, id string, book *domain.ContactBook) *ThreadData {
	td := &ThreadData{ID: id}

	var nodes []json.RawMessage
	json.Unmarshal(raw, &nodes)

	var root *Message
	for _, node := range nodes {
		m := parseNode(node, book)
		if root == nil {
			root = m
		} else {
			root.addChild(m)
		}
	}
	if root == nil {
		root = newMessage("")
	}
	computeChunks(root)

	td.Subject = root.Header("Subject")
	td.SetRoot(root)
	return td
}

// Root returns the root of the message tree.
func (td *ThreadData) Root() *Message {
	return td.root
}

// Size returns the number of messages in the tree.
func (td *ThreadData) Size() int {
	return td.size
}

// DateWidget returns the thread's display date string.
func (td *ThreadData) DateWidget() string {
	return td.dateWidget
}

// SizeWidget returns the thread's message-count decoration, e.g.
// "(3)", or "" for a single message.
func (td *ThreadData) SizeWidget() string {
	if td.size <= 1 {
		return ""
	}
	return fmt.Sprintf("(%d)", td.size)
}

// SetRoot replaces the message tree, pointing every message's thread
// back-reference at this record and recomputing the size and date
// widget.
func (td *ThreadData) SetRoot(root *Message) {
	td.root = root
	td.size = 0
	td.Walk(func(m *Message, depth int, parent *Message) bool {
		m.thread = td
		td.size++
		return true
	})
	td.dateWidget = formatDate(td.Date())
}

// Walk visits every message in pre-order, depth-first, calling fn with
// the message, its depth and its parent. Returning false stops the
// walk. This is the single iteration primitive: every aggregate and
// label operation below is a variant of it.
func (td *ThreadData) Walk(fn func(m *Message, depth int, parent *Message) bool) {
	if td.root == nil {
		return
	}
	walk(td.root, 0, nil, fn)
}

func walk(m *Message, depth int, parent *Message, fn func(*Message, int, *Message) bool) bool {
	if !fn(m, depth, parent) {
		return false
	}
	for _, child := range m.Children {
		if !walk(child, depth+1, m, fn) {
			return false
		}
	}
	return true
}

// ApplyLabel adds label to every message in the thread.
func (td *ThreadData) ApplyLabel(label string) {
	td.Walk(func(m *Message, _ int, _ *Message) bool {
		m.applyLabel(label)
		return true
	})
}

// RemoveLabel removes label from every message in the thread.
func (td *ThreadData) RemoveLabel(label string) {
	td.Walk(func(m *Message, _ int, _ *Message) bool {
		m.removeLabel(label)
		return true
	})
}

// ToggleLabel removes label if any message carries it, else applies it
// to every message.
func (td *ThreadData) ToggleLabel(label string) {
	if td.HasLabel(label) {
		td.RemoveLabel(label)
	} else {
		td.ApplyLabel(label)
	}
}

// HasLabel reports whether any message in the thread carries label.
func (td *ThreadData) HasLabel(label string) bool {
	found := false
	td.Walk(func(m *Message, _ int, _ *Message) bool {
		if m.HasLabel(label) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Labels returns the union of all messages' label sets, sorted.
func (td *ThreadData) Labels() []string {
	union := make(map[string]bool)
	td.Walk(func(m *Message, _ int, _ *Message) bool {
		for l := range m.labels {
			union[l] = true
		}
		return true
	})
	m := newMessage("")
	m.labels = union
	return m.Labels()
}

// Save writes the labels of every locally-mutated message back to the
// index in one batch, clears their dirty flags, and notifies label
// observers. Messages whose labels were never touched are not written.
func (td *ThreadData) Save(ctx context.Context, cache *Cache) error {
	var requests []notmuch.TagRequest
	var written []*Message
	td.Walk(func(m *Message, _ int, _ *Message) bool {
		if m.dirty {
			requests = append(requests, notmuch.TagRequest{
				Query:  "id:" + m.ID,
				Labels: m.Labels(),
			})
			written = append(written, m)
		}
		return true
	})
	if len(requests) == 0 {
		return nil
	}

	if err := cache.index.TagBatch(ctx, requests); err != nil {
		return fmt.Errorf("failed to save labels for thread %s: %w", td.ID, err)
	}
	for _, m := range written {
		m.dirty = false
	}
	cache.notifyLabelsChanged(td.ID)
	return nil
}

// LoadBody re-fetches this thread alone, with bodies, through the
// query executor. The forced fetch overwrites the cache entry with a
// freshly parsed record, so outstanding handles pick up the new tree
// on their next access. In the new tree, a message with a Reply-To
// header gets its effective From replaced by that address, so list
// mail displays the actual sender rather than the list.
func (td *ThreadData) LoadBody(ctx context.Context, cache *Cache) error {
	if _, err := Load(ctx, cache, td.ID, 0, 0, LoadOptions{Body: true, Force: true}); err != nil {
		return fmt.Errorf("failed to reload thread %s: %w", td.ID, err)
	}
	fresh, err := cache.Get(td.ID)
	if err != nil {
		return err
	}
	fresh.Walk(func(m *Message, _ int, _ *Message) bool {
		if m.ReplyTo.Email != "" {
			m.From = m.ReplyTo
		}
		return true
	})
	return nil
}

// Date returns the latest timestamp across all messages.
func (td *ThreadData) Date() time.Time {
	var max int64
	td.Walk(func(m *Message, _ int, _ *Message) bool {
		if m.Timestamp > max {
			max = m.Timestamp
		}
		return true
	})
	if max == 0 {
		return time.Time{}
	}
	return time.Unix(max, 0)
}

// Authors returns the deduplicated senders in tree order.
func (td *ThreadData) Authors() []domain.Person {
	var people []domain.Person
	td.Walk(func(m *Message, _ int, _ *Message) bool {
		people = append(people, m.From)
		return true
	})
	return domain.DedupPeople(people)
}

// Participants returns everyone appearing in From, To, Cc or Bcc,
// deduplicated, in tree order.
func (td *ThreadData) Participants() []domain.Person {
	var people []domain.Person
	td.Walk(func(m *Message, _ int, _ *Message) bool {
		people = append(people, m.From)
		people = append(people, m.To...)
		people = append(people, m.Cc...)
		people = append(people, m.Bcc...)
		return true
	})
	return domain.DedupPeople(people)
}

// DirectParticipants returns everyone appearing in From or To,
// deduplicated, in tree order.
func (td *ThreadData) DirectParticipants() []domain.Person {
	var people []domain.Person
	td.Walk(func(m *Message, _ int, _ *Message) bool {
		people = append(people, m.From)
		people = append(people, m.To...)
		return true
	})
	return domain.DedupPeople(people)
}

// Snippet returns the snippet of the oldest unread message if any
// exist, else the newest message's snippet, else "". An unread
// message's preview is more relevant than a stale read one.
func (td *ThreadData) Snippet() string {
	var oldestUnread, newest *Message
	td.Walk(func(m *Message, _ int, _ *Message) bool {
		if m.HasLabel(domain.LabelUnread) {
			if oldestUnread == nil || m.Timestamp < oldestUnread.Timestamp {
				oldestUnread = m
			}
		}
		if newest == nil || m.Timestamp > newest.Timestamp {
			newest = m
		}
		return true
	})
	if oldestUnread != nil {
		return oldestUnread.Snippet
	}
	if newest != nil {
		return newest.Snippet
	}
	return ""
}

// formatDate renders a thread date the way the index list shows it:
// time of day for today, month and day within the year, full date
// otherwise.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	switch {
	case t.Year() == now.Year() && t.YearDay() == now.YearDay():
		return t.Format("15:04")
	case t.Year() == now.Year():
		return t.Format("Jan 02")
	default:
		return t.Format("2006-01-02")
	}
}

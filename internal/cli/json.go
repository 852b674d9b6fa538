package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bloovis/csup/internal/domain"
	"github.com/bloovis/csup/internal/store"
	"github.com/bloovis/csup/internal/thread"
)

// printJSON encodes v as indented JSON to stdout.
func printJSON(v any) error {
	return fprintJSON(os.Stdout, v)
}

// fprintJSON encodes v as indented JSON to w.
func fprintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Thread JSON types (search)
// ---------------------------------------------------------------------------

type jsonPerson struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

func toJSONPerson(p domain.Person) jsonPerson {
	return jsonPerson{Name: p.Name, Email: p.Email}
}

func toJSONPeople(people []domain.Person) []jsonPerson {
	out := make([]jsonPerson, 0, len(people))
	for _, p := range people {
		out = append(out, toJSONPerson(p))
	}
	return out
}

type jsonThread struct {
	ID           string       `json:"id"`
	Subject      string       `json:"subject"`
	Authors      []jsonPerson `json:"authors,omitempty"`
	Date         string       `json:"date"`
	MessageCount int          `json:"message_count"`
	Snippet      string       `json:"snippet,omitempty"`
	Labels       []string     `json:"labels,omitempty"`
}

func toJSONThreads(handles []thread.Handle) []jsonThread {
	out := make([]jsonThread, 0, len(handles))
	for _, h := range handles {
		td, err := h.Data()
		if err != nil {
			continue
		}
		out = append(out, jsonThread{
			ID:           td.ID,
			Subject:      td.Subject,
			Authors:      toJSONPeople(td.Authors()),
			Date:         td.Date().Format(time.RFC3339),
			MessageCount: td.Size(),
			Snippet:      td.Snippet(),
			Labels:       td.Labels(),
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Thread detail JSON type (read)
// ---------------------------------------------------------------------------

type jsonThreadDetail struct {
	ID       string        `json:"id"`
	Subject  string        `json:"subject"`
	Messages []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	ID     string       `json:"id"`
	Depth  int          `json:"depth"`
	From   jsonPerson   `json:"from"`
	To     []jsonPerson `json:"to,omitempty"`
	Cc     []jsonPerson `json:"cc,omitempty"`
	Date   string       `json:"date"`
	Labels []string     `json:"labels,omitempty"`
	Body   []string     `json:"body,omitempty"`
}

func toJSONThreadDetail(td *thread.ThreadData) jsonThreadDetail {
	detail := jsonThreadDetail{
		ID:       td.ID,
		Subject:  td.Subject,
		Messages: []jsonMessage{},
	}
	td.Walk(func(m *thread.Message, depth int, _ *thread.Message) bool {
		msg := jsonMessage{
			ID:     m.ID,
			Depth:  depth,
			From:   toJSONPerson(m.From),
			To:     toJSONPeople(m.To),
			Cc:     toJSONPeople(m.Cc),
			Labels: m.Labels(),
		}
		if m.Timestamp != 0 {
			msg.Date = time.Unix(m.Timestamp, 0).UTC().Format(time.RFC3339)
		}
		for _, chunk := range m.Chunks {
			msg.Body = append(msg.Body, chunk.Lines...)
		}
		detail.Messages = append(detail.Messages, msg)
		return true
	})
	return detail
}

// ---------------------------------------------------------------------------
// Saved search JSON types
// ---------------------------------------------------------------------------

type jsonSearch struct {
	Name      string `json:"name"`
	Query     string `json:"query"`
	CreatedAt string `json:"created_at"`
}

func toJSONSearches(searches []store.SavedSearch) []jsonSearch {
	out := make([]jsonSearch, 0, len(searches))
	for _, s := range searches {
		out = append(out, jsonSearch{
			Name:      s.Name,
			Query:     s.Query,
			CreatedAt: s.CreatedAt.Format(time.DateOnly),
		})
	}
	return out
}

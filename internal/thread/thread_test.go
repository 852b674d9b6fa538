package thread

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bloovis/csup/internal/notmuch"
)

// fakeIndex serves canned threads and records every call. Show answers
// with one entry per requested id, in request order, the way the real
// index does.
type fakeIndex struct {
	searchIDs []string
	threads   map[string]string // thread id -> thread JSON

	searchCalls   int
	searchOpts    []notmuch.SearchOptions
	showRequested [][]string
	showBody      []bool
	tagBatches    [][]notmuch.TagRequest

	showOverride string
	showErr      error
}

func (f *fakeIndex) Search(ctx context.Context, query string, opts notmuch.SearchOptions) ([]string, error) {
	f.searchCalls++
	f.searchOpts = append(f.searchOpts, opts)
	return f.searchIDs, nil
}

func (f *fakeIndex) Show(ctx context.Context, query string, body, html bool) (json.RawMessage, error) {
	ids := requestedIDs(query)
	f.showRequested = append(f.showRequested, ids)
	f.showBody = append(f.showBody, body)
	if f.showErr != nil {
		return nil, f.showErr
	}
	if f.showOverride != "" {
		return json.RawMessage(f.showOverride), nil
	}
	entries := make([]string, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, f.threads[id])
	}
	return json.RawMessage("[" + strings.Join(entries, ",") + "]"), nil
}

func (f *fakeIndex) TagBatch(ctx context.Context, requests []notmuch.TagRequest) error {
	f.tagBatches = append(f.tagBatches, requests)
	return nil
}

// requestedIDs recovers the thread ids from a batched show query of
// the form "(id1 or id2) and (query)".
func requestedIDs(query string) []string {
	inner := query
	if i := strings.Index(query, ") and ("); i >= 0 {
		inner = query[:i]
	}
	inner = strings.Trim(inner, "()")
	return strings.Split(inner, " or ")
}

// msgInfo builds the message_info JSON object for test threads.
func msgInfo(id string, ts int64, tags []string, headers map[string]string, bodyText string) map[string]any {
	var body []any
	if bodyText != "" {
		body = append(body, map[string]any{
			"id": 1, "content-type": "text/plain", "content": bodyText,
		})
	}
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"id":        id,
		"timestamp": ts,
		"tags":      tags,
		"headers":   headers,
		"body":      body,
	}
}

// threadJSON encodes top-level nodes as one thread entry.
func threadJSON(t *testing.T, nodes ...any) string {
	t.Helper()
	b, err := json.Marshal(nodes)
	if err != nil {
		t.Fatalf("marshal thread fixture: %v", err)
	}
	return string(b)
}

// node pairs a message with its children, matching the show format.
func node(info any, children ...any) []any {
	if children == nil {
		children = []any{}
	}
	return []any{info, children}
}

// simpleThread is a one-message thread with the given body text.
func simpleThread(t *testing.T, msgID string, ts int64, tags []string, bodyText string) string {
	t.Helper()
	headers := map[string]string{
		"Subject": "test subject",
		"From":    "Alice <alice@example.com>",
		"To":      "Bob <bob@example.com>",
	}
	return threadJSON(t, node(msgInfo(msgID, ts, tags, headers, bodyText)))
}

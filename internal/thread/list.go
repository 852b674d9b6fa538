package thread

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bloovis/csup/internal/notmuch"
)

// LoadOptions configures a Load call.
type LoadOptions struct {
	// Body requests full message bodies and html parts, and lets the
	// search re-open excluded/archived threads.
	Body bool

	// Force re-fetches every matched thread even if cached.
	Force bool
}

// List is the result of one executed query: an ordered set of thread
// handles plus the query that produced them.
type List struct {
	Query   string
	Handles []Handle
}

// Load runs a two-phase query against the index and populates the
// cache. Phase one enumerates matching thread ids; phase two issues a
// single batched "show" for only the ids not already cached (all of
// them when Force), so the number of subprocess invocations is bounded
// regardless of result-set size. The returned handles follow the
// search result order, not cache-population order.
func Load(ctx context.Context, cache *Cache, query string, offset, limit int, opts LoadOptions) (*List, error) {
	ids, err := cache.index.Search(ctx, query, notmuch.SearchOptions{
		Output:          notmuch.OutputThreads,
		IncludeExcluded: opts.Body,
		Offset:          offset,
		Limit:           limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search threads: %w", err)
	}

	list := &List{Query: query}
	if len(ids) == 0 {
		return list, nil
	}

	var need []string
	for _, id := range ids {
		if opts.Force || !cache.Cached(id) {
			need = append(need, id)
		}
	}

	if len(need) > 0 {
		showQuery := "(" + strings.Join(need, " or ") + ") and (" + query + ")"
		raw, err := cache.index.Show(ctx, showQuery, opts.Body, opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch threads: %w", err)
		}

		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse show output: %w", err)
		}
		// The index returns exactly one entry per requested id, in
		// request order. Anything else means our understanding of the
		// output format has diverged from the index's.
		if len(entries) != len(need) {
			return nil, fmt.Errorf("show returned %d threads for %d requested ids", len(entries), len(need))
		}

		for i, entry := range entries {
			cache.Add(NewThreadData(entry, need[i], cache.contacts))
		}
	}

	list.Handles = make([]Handle, 0, len(ids))
	for _, id := range ids {
		list.Handles = append(list.Handles, cache.Handle(id))
	}
	return list, nil
}

// Len returns the number of threads in the list.
func (l *List) Len() int {
	return len(l.Handles)
}

// FindThread scans the list for a handle with the given thread id.
func (l *List) FindThread(id string) (Handle, bool) {
	for _, h := range l.Handles {
		if h.ID == id {
			return h, true
		}
	}
	return Handle{}, false
}

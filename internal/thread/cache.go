// Package thread holds the client's in-memory model of mail threads:
// the message tree parsed from the index's "show" output, the
// process-wide thread cache, and the query executor that populates it.
//
// Everything here is single-threaded by design. Index invocations are
// blocking subprocess calls that suspend the UI until they return, so
// the cache needs no locking; at-most-one record per thread id is
// guaranteed by always routing mutation through Cache.Add.
package thread

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bloovis/csup/internal/domain"
	"github.com/bloovis/csup/internal/notmuch"
)

// ErrNotCached is returned by Cache.Get for a thread id that has not
// been populated. Callers must check Cached first or come through the
// query executor, which populates the cache before handing out
// handles.
var ErrNotCached = errors.New("thread not in cache")

// Index is the slice of the external mail index the thread model
// consumes. *notmuch.Client satisfies it.
type Index interface {
	Search(ctx context.Context, query string, opts notmuch.SearchOptions) ([]string, error)
	Show(ctx context.Context, query string, body, html bool) (json.RawMessage, error)
	TagBatch(ctx context.Context, requests []notmuch.TagRequest) error
}

// Cache maps thread ids to their single shared ThreadData record. Many
// unrelated screens may ask for the same thread; the cache is the
// synchronization point that keeps them all looking at one record, so
// a label edit made on one screen is visible on every other.
//
// Entries live for the process lifetime; there is no eviction.
type Cache struct {
	index     Index
	contacts  *domain.ContactBook
	threads   map[string]*ThreadData
	observers []func(threadID string)
}

// NewCache creates a cache backed by the given index. contacts may be
// nil when no contact book is configured.
func NewCache(index Index, contacts *domain.ContactBook) *Cache {
	return &Cache{
		index:    index,
		contacts: contacts,
		threads:  make(map[string]*ThreadData),
	}
}

// Get returns the record for id, or ErrNotCached if the executor has
// never populated it.
func (c *Cache) Get(id string) (*ThreadData, error) {
	td, ok := c.threads[id]
	if !ok {
		return nil, fmt.Errorf("thread %s: %w", id, ErrNotCached)
	}
	return td, nil
}

// Add inserts or overwrites the record for td.ID. Overwriting is how a
// forced reload replaces a thread's content: handles hold only the id
// and re-resolve through the cache on every access, so they observe
// the new record without doing anything themselves.
func (c *Cache) Add(td *ThreadData) {
	c.threads[td.ID] = td
}

// Cached reports whether a record exists for id.
func (c *Cache) Cached(id string) bool {
	_, ok := c.threads[id]
	return ok
}

// Handle returns a lightweight reference to the thread with the given
// id. The handle is valid whether or not the id is populated yet.
func (c *Cache) Handle(id string) Handle {
	return Handle{cache: c, ID: id}
}

// OnLabelsChanged registers fn to be called synchronously after a
// thread's label changes are saved to the index. UI screens use this
// to redraw without polling.
func (c *Cache) OnLabelsChanged(fn func(threadID string)) {
	c.observers = append(c.observers, fn)
}

func (c *Cache) notifyLabelsChanged(id string) {
	for _, fn := range c.observers {
		fn(id)
	}
}

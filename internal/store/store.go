package store

import (
	"context"
	"time"
)

// Store persists the small amount of client-side state the external
// mail index does not own. Thread data is never persisted here: the
// index is the single source of truth for mail, and the in-memory
// thread cache is rebuilt on demand.
type Store interface {
	// Saved searches
	SaveSearch(ctx context.Context, name, query string) error
	ListSearches(ctx context.Context) ([]SavedSearch, error)
	DeleteSearch(ctx context.Context, name string) error

	// Poll watermark: the index's lastmod counter at the last poll,
	// used to detect whether anything changed since.
	Lastmod(ctx context.Context) (int, error)
	SetLastmod(ctx context.Context, lastmod int) error

	Close() error
}

// SavedSearch is a named query the user wants to keep around.
type SavedSearch struct {
	Name      string
	Query     string
	CreatedAt time.Time
}

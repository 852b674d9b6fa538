package thread

import "context"

// Handle is a copyable reference to a thread by id. It never retains a
// pointer to the record itself: every access re-resolves through the
// cache, so all handles for one id observe the same, current record
// even after a forced reload overwrites the cache entry.
type Handle struct {
	cache *Cache
	ID    string
}

// Data resolves the handle to the record currently stored in the
// cache. Callers should use the record transiently and not retain it
// across index operations.
func (h Handle) Data() (*ThreadData, error) {
	return h.cache.Get(h.ID)
}

// Subject returns the thread's subject, or "" if the thread is not
// cached.
func (h Handle) Subject() string {
	td, err := h.Data()
	if err != nil {
		return ""
	}
	return td.Subject
}

// HasLabel reports whether any message in the thread carries label.
func (h Handle) HasLabel(label string) bool {
	td, err := h.Data()
	if err != nil {
		return false
	}
	return td.HasLabel(label)
}

// LoadBody re-fetches the thread with full message bodies. Every other
// handle for this id observes the updated tree on its next access.
func (h Handle) LoadBody(ctx context.Context) error {
	td, err := h.Data()
	if err != nil {
		return err
	}
	return td.LoadBody(ctx, h.cache)
}

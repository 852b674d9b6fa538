package thread

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func handleIDs(l *List) []string {
	ids := make([]string, 0, len(l.Handles))
	for _, h := range l.Handles {
		ids = append(ids, h.ID)
	}
	return ids
}

func TestLoad_Scenario(t *testing.T) {
	index := &fakeIndex{
		searchIDs: []string{"0001", "0002"},
		threads: map[string]string{
			"0001": simpleThread(t, "msg-1", 100, []string{"inbox"}, "first"),
			"0002": simpleThread(t, "msg-2", 200, []string{"inbox"}, "second"),
		},
	}
	cache := NewCache(index, nil)

	list, err := Load(context.Background(), cache, "tag:inbox", 0, 10, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(index.showRequested) != 1 {
		t.Fatalf("Load() issued %d show calls, want 1", len(index.showRequested))
	}
	if diff := cmp.Diff([]string{"0001", "0002"}, index.showRequested[0]); diff != "" {
		t.Errorf("show requested ids mismatch (-want +got):\n%s", diff)
	}
	if !cache.Cached("0001") || !cache.Cached("0002") {
		t.Error("Load() left requested threads uncached")
	}
	if diff := cmp.Diff([]string{"0001", "0002"}, handleIDs(list)); diff != "" {
		t.Errorf("handle order mismatch (-want +got):\n%s", diff)
	}
	if list.Query != "tag:inbox" {
		t.Errorf("list.Query = %q, want tag:inbox", list.Query)
	}
}

func TestLoad_BatchedQueryOrdering(t *testing.T) {
	index := &fakeIndex{
		searchIDs: []string{"A"},
		threads: map[string]string{
			"A": simpleThread(t, "msg-a", 100, nil, ""),
			"B": simpleThread(t, "msg-b", 200, nil, ""),
			"C": simpleThread(t, "msg-c", 300, nil, ""),
		},
	}
	cache := NewCache(index, nil)
	ctx := context.Background()

	// Prime the cache with A only.
	if _, err := Load(ctx, cache, "tag:primed", 0, 0, LoadOptions{}); err != nil {
		t.Fatalf("priming Load() error: %v", err)
	}

	// Search now returns B, A, C with only A cached: the batched show
	// must request exactly {B, C}, and the handle order must follow
	// the search order regardless of fetch order.
	index.searchIDs = []string{"B", "A", "C"}
	list, err := Load(ctx, cache, "tag:inbox", 0, 0, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(index.showRequested) != 2 {
		t.Fatalf("show calls = %d, want 2 (one priming, one batch)", len(index.showRequested))
	}
	if diff := cmp.Diff([]string{"B", "C"}, index.showRequested[1]); diff != "" {
		t.Errorf("batched show ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B", "A", "C"}, handleIDs(list)); diff != "" {
		t.Errorf("handle order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_IdempotentCaching(t *testing.T) {
	index := &fakeIndex{
		searchIDs: []string{"0001"},
		threads:   map[string]string{"0001": simpleThread(t, "msg-1", 100, nil, "")},
	}
	cache := NewCache(index, nil)
	ctx := context.Background()

	if _, err := Load(ctx, cache, "tag:inbox", 0, 0, LoadOptions{}); err != nil {
		t.Fatalf("first Load() error: %v", err)
	}
	if _, err := Load(ctx, cache, "tag:inbox", 0, 0, LoadOptions{}); err != nil {
		t.Fatalf("second Load() error: %v", err)
	}

	if len(index.showRequested) != 1 {
		t.Errorf("show calls = %d, want 1 (second run fully served from cache)", len(index.showRequested))
	}
	if index.searchCalls != 2 {
		t.Errorf("search calls = %d, want 2", index.searchCalls)
	}
}

func TestLoad_ForceRefetches(t *testing.T) {
	index := &fakeIndex{
		searchIDs: []string{"0001"},
		threads:   map[string]string{"0001": simpleThread(t, "msg-1", 100, nil, "")},
	}
	cache := NewCache(index, nil)
	ctx := context.Background()

	if _, err := Load(ctx, cache, "tag:inbox", 0, 0, LoadOptions{}); err != nil {
		t.Fatalf("first Load() error: %v", err)
	}
	before, _ := cache.Get("0001")

	if _, err := Load(ctx, cache, "tag:inbox", 0, 0, LoadOptions{Force: true}); err != nil {
		t.Fatalf("forced Load() error: %v", err)
	}
	after, _ := cache.Get("0001")

	if len(index.showRequested) != 2 {
		t.Errorf("show calls = %d, want 2", len(index.showRequested))
	}
	if before == after {
		t.Error("forced Load() did not replace the cached record")
	}
}

func TestLoad_Empty(t *testing.T) {
	index := &fakeIndex{}
	cache := NewCache(index, nil)

	list, err := Load(context.Background(), cache, "tag:nothing", 0, 0, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if list.Len() != 0 {
		t.Errorf("Len() = %d, want 0", list.Len())
	}
	if len(index.showRequested) != 0 {
		t.Errorf("show calls = %d, want 0 for an empty search result", len(index.showRequested))
	}
}

func TestLoad_CountMismatch(t *testing.T) {
	index := &fakeIndex{
		searchIDs:    []string{"0001", "0002"},
		showOverride: "[" + simpleThread(t, "msg-1", 100, nil, "") + "]",
	}
	cache := NewCache(index, nil)

	if _, err := Load(context.Background(), cache, "tag:inbox", 0, 0, LoadOptions{}); err == nil {
		t.Fatal("Load() error = nil, want protocol violation for entry/id count mismatch")
	}
}

func TestLoad_SearchOptions(t *testing.T) {
	index := &fakeIndex{}
	cache := NewCache(index, nil)
	ctx := context.Background()

	if _, err := Load(ctx, cache, "tag:inbox", 20, 10, LoadOptions{}); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	opts := index.searchOpts[0]
	if opts.Offset != 20 || opts.Limit != 10 {
		t.Errorf("search offset/limit = %d/%d, want 20/10", opts.Offset, opts.Limit)
	}
	if opts.IncludeExcluded {
		t.Error("non-body search must keep the index's exclude filtering")
	}

	if _, err := Load(ctx, cache, "tag:inbox", 0, 0, LoadOptions{Body: true}); err != nil {
		t.Fatalf("Load(body) error: %v", err)
	}
	if !index.searchOpts[1].IncludeExcluded {
		t.Error("body fetch must be able to re-open excluded threads")
	}
}

func TestList_FindThread(t *testing.T) {
	index := &fakeIndex{
		searchIDs: []string{"0001", "0002"},
		threads: map[string]string{
			"0001": simpleThread(t, "msg-1", 100, nil, ""),
			"0002": simpleThread(t, "msg-2", 200, nil, ""),
		},
	}
	cache := NewCache(index, nil)

	list, err := Load(context.Background(), cache, "tag:inbox", 0, 0, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	h, ok := list.FindThread("0002")
	if !ok || h.ID != "0002" {
		t.Errorf("FindThread(0002) = (%v, %v), want handle for 0002", h.ID, ok)
	}
	if _, ok := list.FindThread("0003"); ok {
		t.Error("FindThread(0003) = true, want false")
	}
}

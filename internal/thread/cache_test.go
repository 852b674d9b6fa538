package thread

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestCache_GetAbsent(t *testing.T) {
	cache := NewCache(&fakeIndex{}, nil)

	if cache.Cached("nope") {
		t.Error("Cached(nope) = true on empty cache")
	}
	if _, err := cache.Get("nope"); !errors.Is(err, ErrNotCached) {
		t.Errorf("Get(nope) error = %v, want ErrNotCached", err)
	}
}

func TestCache_AddAndGet(t *testing.T) {
	cache := NewCache(&fakeIndex{}, nil)
	td := NewThreadData(json.RawMessage(simpleThread(t, "msg-1", 100, nil, "body")), "thread-1", nil)
	cache.Add(td)

	if !cache.Cached("thread-1") {
		t.Fatal("Cached(thread-1) = false after Add")
	}
	got, err := cache.Get("thread-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != td {
		t.Error("Get() returned a different record than was added")
	}
}

func TestCache_AddOverwrites(t *testing.T) {
	cache := NewCache(&fakeIndex{}, nil)
	old := NewThreadData(json.RawMessage(simpleThread(t, "msg-1", 100, nil, "")), "thread-1", nil)
	cache.Add(old)

	handle := cache.Handle("thread-1")

	replacement := NewThreadData(json.RawMessage(simpleThread(t, "msg-1", 100, nil, "full body")), "thread-1", nil)
	cache.Add(replacement)

	got, err := handle.Data()
	if err != nil {
		t.Fatalf("handle.Data() error: %v", err)
	}
	if got != replacement {
		t.Error("handle still resolves to the overwritten record")
	}
}

func TestCache_SingleInstanceAcrossQueries(t *testing.T) {
	index := &fakeIndex{
		searchIDs: []string{"thread-1"},
		threads:   map[string]string{"thread-1": simpleThread(t, "msg-1", 100, []string{"inbox"}, "body")},
	}
	cache := NewCache(index, nil)
	ctx := context.Background()

	// Two unrelated call sites ask for result sets containing the same
	// thread id.
	first, err := Load(ctx, cache, "tag:inbox", 0, 10, LoadOptions{})
	if err != nil {
		t.Fatalf("first Load() error: %v", err)
	}
	second, err := Load(ctx, cache, "from:alice@example.com", 0, 10, LoadOptions{})
	if err != nil {
		t.Fatalf("second Load() error: %v", err)
	}

	a, err := first.Handles[0].Data()
	if err != nil {
		t.Fatalf("first handle Data() error: %v", err)
	}
	b, err := second.Handles[0].Data()
	if err != nil {
		t.Fatalf("second handle Data() error: %v", err)
	}
	if a != b {
		t.Error("two query paths produced distinct ThreadData instances for one id")
	}
}

func TestHandle_Forwarders(t *testing.T) {
	cache := NewCache(&fakeIndex{}, nil)

	missing := cache.Handle("absent")
	if missing.Subject() != "" || missing.HasLabel("inbox") {
		t.Error("handle for absent thread should return zero values")
	}

	td := NewThreadData(json.RawMessage(simpleThread(t, "msg-1", 100, []string{"inbox"}, "body")), "thread-1", nil)
	cache.Add(td)

	h := cache.Handle("thread-1")
	if h.Subject() != "test subject" {
		t.Errorf("Subject() = %q, want %q", h.Subject(), "test subject")
	}
	if !h.HasLabel("inbox") {
		t.Error("HasLabel(inbox) = false, want true")
	}
}

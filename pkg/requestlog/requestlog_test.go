package requestlog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(method, path string, status int) *Entry {
	return &Entry{
		Method:     method,
		Path:       path,
		Status:     status,
		Line:       fmt.Sprintf(`%s %s %d`, method, path, status),
		RemoteAddr: "10.0.0.1:1234",
	}
}

func TestLogAssignsIDAndTimestamp(t *testing.T) {
	store := NewMemoryStore(10)
	e := entry("GET", "/a", 200)
	store.Log(e)

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Same(t, e, store.Get(e.ID))
}

func TestLogNilIsIgnored(t *testing.T) {
	store := NewMemoryStore(10)
	store.Log(nil)
	assert.Equal(t, 0, store.Count())
}

func TestFIFOEviction(t *testing.T) {
	store := NewMemoryStore(3)
	for i := 0; i < 5; i++ {
		store.Log(entry("GET", fmt.Sprintf("/p%d", i), 200))
	}

	assert.Equal(t, 3, store.Count())
	list := store.List(nil)
	require.Len(t, list, 3)
	// Newest first; /p0 and /p1 were evicted.
	assert.Equal(t, "/p4", list[0].Path)
	assert.Equal(t, "/p2", list[2].Path)
}

func TestListFilters(t *testing.T) {
	store := NewMemoryStore(100)
	store.Log(entry("GET", "/api/users", 200))
	store.Log(entry("POST", "/api/users", 201))
	store.Log(entry("GET", "/health", 200))
	slow := entry("GET", "/api/slow", 500)
	slow.DurationMs = 1200
	store.Log(slow)

	assert.Len(t, store.List(&Filter{Method: "GET"}), 3)
	assert.Len(t, store.List(&Filter{Path: "/api/"}), 3)
	assert.Len(t, store.List(&Filter{Status: 201}), 1)
	assert.Len(t, store.List(&Filter{MinDurationMs: 1000}), 1)
	assert.Len(t, store.List(&Filter{Method: "GET", Path: "/api/"}), 2)
}

func TestListPagination(t *testing.T) {
	store := NewMemoryStore(100)
	for i := 0; i < 10; i++ {
		store.Log(entry("GET", fmt.Sprintf("/p%d", i), 200))
	}

	page := store.List(&Filter{Limit: 3})
	require.Len(t, page, 3)
	assert.Equal(t, "/p9", page[0].Path)

	page = store.List(&Filter{Offset: 3, Limit: 3})
	require.Len(t, page, 3)
	assert.Equal(t, "/p6", page[0].Path)

	assert.Empty(t, store.List(&Filter{Offset: 100}))
}

func TestClear(t *testing.T) {
	store := NewMemoryStore(10)
	store.Log(entry("GET", "/a", 200))
	store.Clear()
	assert.Equal(t, 0, store.Count())
}

func TestSubscribe(t *testing.T) {
	store := NewMemoryStore(10)
	ch, unsubscribe := store.Subscribe()

	store.Log(entry("GET", "/a", 200))

	select {
	case got := <-ch:
		assert.Equal(t, "/a", got.Path)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive entry")
	}

	unsubscribe()
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}

	// Logging after unsubscribe must not panic.
	store.Log(entry("GET", "/b", 200))
}

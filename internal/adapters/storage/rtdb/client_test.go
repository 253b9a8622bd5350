package rtdb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"meditrack/internal/ports/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// fakeDB emula el subconjunto REST de la base key-path que usa el cliente.
type fakeDB struct {
	mu      sync.Mutex
	calls   []call
	nodes   map[string]map[string]json.RawMessage
	nextID  int
	noIndex bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{nodes: map[string]map[string]json.RawMessage{}}
}

func (f *fakeDB) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, _ := io.ReadAll(r.Body)
	f.calls = append(f.calls, call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(b)})

	path := r.URL.Path[1 : len(r.URL.Path)-len(".json")]
	coll, id := path, ""
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			coll, id = path[:i], path[i+1:]
			break
		}
	}
	if f.nodes[coll] == nil {
		f.nodes[coll] = map[string]json.RawMessage{}
	}

	switch {
	case r.Method == http.MethodGet && id == "":
		if f.noIndex && r.URL.Query().Get("orderBy") != "" {
			http.Error(w, `{"error":"Index not defined"}`, http.StatusBadRequest)
			return
		}
		if len(f.nodes[coll]) == 0 {
			_, _ = w.Write([]byte("null"))
			return
		}
		_ = json.NewEncoder(w).Encode(f.nodes[coll])
	case r.Method == http.MethodGet:
		v, ok := f.nodes[coll][id]
		if !ok {
			_, _ = w.Write([]byte("null"))
			return
		}
		_, _ = w.Write(v)
	case r.Method == http.MethodPost:
		f.nextID++
		newID := "-N" + string(rune('a'+f.nextID))
		f.nodes[coll][newID] = b
		_, _ = w.Write([]byte(`{"name":"` + newID + `"}`))
	case r.Method == http.MethodPatch:
		var cur, patch map[string]any
		_ = json.Unmarshal(f.nodes[coll][id], &cur)
		_ = json.Unmarshal(b, &patch)
		if cur == nil {
			cur = map[string]any{}
		}
		for k, v := range patch {
			cur[k] = v
		}
		merged, _ := json.Marshal(cur)
		f.nodes[coll][id] = merged
		_, _ = w.Write(b)
	case r.Method == http.MethodPut:
		f.nodes[coll][id] = b
		_, _ = w.Write(b)
	case r.Method == http.MethodDelete:
		delete(f.nodes[coll], id)
		_, _ = w.Write([]byte("null"))
	}
}

func (f *fakeDB) lastCall() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newTestClient(t *testing.T, db *fakeDB, cfg Config) *Client {
	t.Helper()
	ts := httptest.NewServer(db)
	t.Cleanup(ts.Close)

	cfg.BaseURL = ts.URL
	c, err := New(cfg, nil)
	require.NoError(t, err)
	return c
}

func TestClient_CRUDPathsAndVerbs(t *testing.T) {
	db := newFakeDB()
	c := newTestClient(t, db, Config{AuthToken: "secret"})
	ctx := context.Background()

	id, err := c.Create(ctx, "medications", map[string]any{"name": "Aspirin", "userId": "u1", "status": "pending"})
	require.NoError(t, err)

	lc := db.lastCall()
	assert.Equal(t, http.MethodPost, lc.Method)
	assert.Equal(t, "/medications.json", lc.Path)
	assert.Equal(t, "auth=secret", lc.Query)

	require.NoError(t, c.Update(ctx, "medications", id, map[string]any{"status": "taken"}))
	lc = db.lastCall()
	assert.Equal(t, http.MethodPatch, lc.Method)
	assert.Equal(t, "/medications/"+id+".json", lc.Path)
	assert.JSONEq(t, `{"status":"taken"}`, lc.Body)

	var got map[string]any
	require.NoError(t, c.Get(ctx, "medications", id, &got))
	assert.Equal(t, "taken", got["status"])
	assert.Equal(t, "Aspirin", got["name"])

	require.NoError(t, c.Put(ctx, "profile", "default", map[string]any{"name": "Ana"}))
	lc = db.lastCall()
	assert.Equal(t, http.MethodPut, lc.Method)
	assert.Equal(t, "/profile/default.json", lc.Path)

	require.NoError(t, c.Remove(ctx, "medications", id))
	lc = db.lastCall()
	assert.Equal(t, http.MethodDelete, lc.Method)

	assert.ErrorIs(t, c.Get(ctx, "medications", id, &got), store.ErrNotFound)
}

func TestClient_RemoveMissingIsNotFound(t *testing.T) {
	db := newFakeDB()
	c := newTestClient(t, db, Config{})
	ctx := context.Background()

	assert.ErrorIs(t, c.Remove(ctx, "renewals", "gone"), store.ErrNotFound)
	assert.Equal(t, http.MethodGet, db.lastCall().Method, "no DELETE for a missing node")
}

func TestClient_ListUsesServerFilter(t *testing.T) {
	db := newFakeDB()
	c := newTestClient(t, db, Config{})
	ctx := context.Background()

	_, _ = c.Create(ctx, "medications", map[string]any{"userId": "u1", "name": "b"})
	_, _ = c.Create(ctx, "medications", map[string]any{"userId": "u2", "name": "z"})
	_, _ = c.Create(ctx, "medications", map[string]any{"userId": "u1", "name": "a"})

	docs, err := c.List(ctx, "medications", store.Query{UserField: "userId", UserID: "u1", OrderBy: "name"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", store.Field(docs[0].Data, "name"))

	lc := db.lastCall()
	assert.Contains(t, lc.Query, "orderBy=%22userId%22")
	assert.Contains(t, lc.Query, "equalTo=%22u1%22")
}

func TestClient_ListFallsBackWhenIndexMissing(t *testing.T) {
	db := newFakeDB()
	db.noIndex = true
	c := newTestClient(t, db, Config{})
	ctx := context.Background()

	_, _ = c.Create(ctx, "renewals", map[string]any{"userId": "u1"})
	_, _ = c.Create(ctx, "renewals", map[string]any{"userId": "u2"})

	docs, err := c.List(ctx, "renewals", store.Query{UserField: "userId", UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestClient_ListEmptyCollection(t *testing.T) {
	c := newTestClient(t, newFakeDB(), Config{})
	docs, err := c.List(context.Background(), "reminders", store.Query{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestClient_SubscribePollsAndEmitsOnChange(t *testing.T) {
	db := newFakeDB()
	c := newTestClient(t, db, Config{PollInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := c.Subscribe(ctx, "reminders", store.Query{UserField: "userId", UserID: "u1"})
	require.NoError(t, err)

	select {
	case snap := <-ch:
		require.NoError(t, snap.Err)
		assert.Empty(t, snap.Documents)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial snapshot")
	}

	_, err = c.Create(context.Background(), "reminders", map[string]any{"userId": "u1", "medication": "Aspirin"})
	require.NoError(t, err)

	select {
	case snap := <-ch:
		require.NoError(t, snap.Err)
		assert.Len(t, snap.Documents, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after change")
	}
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

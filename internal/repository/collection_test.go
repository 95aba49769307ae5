package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/BruksfildServices01/barbearia-console/internal/storage"
)

type note struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Count int    `json:"count"`
}

func newNotes(seed func() []note) (*Collection[note], *storage.Adapter) {
	store := storage.NewAdapter(storage.NewMemoryBackend(), nil)
	col := NewCollection(store, "notes", seed,
		func(n *note) string { return n.ID },
		func(n *note, id string) { n.ID = id },
	)
	return col, store
}

func TestLoadAllSeedsOnce(t *testing.T) {
	calls := 0
	col, _ := newNotes(func() []note {
		calls++
		return []note{{ID: "1", Text: "seed"}}
	})
	ctx := context.Background()

	col.LoadAll(ctx)
	col.Remove(ctx, "1")
	got := col.LoadAll(ctx)

	if calls != 1 {
		t.Fatalf("seed called %d times", calls)
	}
	if len(got) != 0 {
		t.Fatalf("deleted seed came back: %v", got)
	}
}

func TestSaveLoadRoundTripPreservesOrder(t *testing.T) {
	col, _ := newNotes(nil)
	ctx := context.Background()
	in := []note{{ID: "c", Text: "3"}, {ID: "a", Text: "1"}, {ID: "b", Text: "2"}}

	if !col.Save(ctx, in) {
		t.Fatal("save failed")
	}
	out := col.LoadAll(ctx)

	if len(out) != len(in) {
		t.Fatalf("len %d", len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("index %d: %+v != %+v", i, out[i], in[i])
		}
	}
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	col, _ := newNotes(nil)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n, err := col.Add(ctx, note{Text: "x"})
		if err != nil || n.ID == "" || seen[n.ID] {
			t.Fatalf("bad id %q", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestUpdateShallowMerge(t *testing.T) {
	col, _ := newNotes(func() []note { return []note{{ID: "1", Text: "old", Count: 2}} })
	ctx := context.Background()

	got, err := col.Update(ctx, "1", map[string]any{"text": "new", "id": "hijack"})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "1" || got.Text != "new" || got.Count != 2 {
		t.Fatalf("merged %+v", got)
	}
	stored, _ := col.Find(ctx, "1")
	if stored.Text != "new" {
		t.Fatalf("not persisted: %+v", stored)
	}
}

func TestMissingIDIsNoOp(t *testing.T) {
	col, _ := newNotes(func() []note { return []note{{ID: "1"}} })
	ctx := context.Background()

	if _, err := col.Update(ctx, "404", map[string]any{"text": "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if err := col.Remove(ctx, "404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if len(col.LoadAll(ctx)) != 1 {
		t.Fatal("state changed")
	}
}

func TestApplyErrorLeavesStateUntouched(t *testing.T) {
	col, _ := newNotes(func() []note { return []note{{ID: "1"}} })
	ctx := context.Background()

	err := col.Apply(ctx, func(items []note) ([]note, error) {
		return append(items, note{ID: "2"}), errors.New("rejected")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(col.LoadAll(ctx)) != 1 {
		t.Fatal("apply persisted despite error")
	}
}

func TestMalformedStoreDegradesToEmpty(t *testing.T) {
	store := storage.NewAdapter(storage.NewMemoryBackend(), nil)
	store.PutRaw(context.Background(), "notes", []byte("{oops"))
	col := NewCollection(store, "notes", func() []note { return []note{{ID: "seed"}} },
		func(n *note) string { return n.ID },
		func(n *note, id string) { n.ID = id },
	)

	if got := col.LoadAll(context.Background()); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

// flakyBackend fails the next n reads, then behaves like memory.
type flakyBackend struct {
	*storage.MemoryBackend
	mu    sync.Mutex
	fails int
}

func (f *flakyBackend) failNext(n int) {
	f.mu.Lock()
	f.fails = n
	f.mu.Unlock()
}

func (f *flakyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	if f.fails > 0 {
		f.fails--
		f.mu.Unlock()
		return nil, false, errors.New("connection reset")
	}
	f.mu.Unlock()
	return f.MemoryBackend.Get(ctx, key)
}

func TestReadErrorNeverReseeds(t *testing.T) {
	backend := &flakyBackend{MemoryBackend: storage.NewMemoryBackend()}
	store := storage.NewAdapter(backend, nil)
	col := NewCollection(store, "notes", func() []note { return []note{{ID: "seed"}} },
		func(n *note) string { return n.ID },
		func(n *note, id string) { n.ID = id },
	)
	ctx := context.Background()

	stored := []note{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	if !col.Save(ctx, stored) {
		t.Fatal("save failed")
	}

	backend.failNext(1)
	if got := col.LoadAll(ctx); len(got) != 0 {
		t.Fatalf("failed read returned %v", got)
	}
	if got := col.LoadAll(ctx); len(got) != 3 || got[0].ID != "a" {
		t.Fatalf("after one read error: %v", got)
	}

	backend.failNext(1)
	if _, err := col.Add(ctx, note{Text: "new"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("add err = %v", err)
	}
	backend.failNext(1)
	if _, err := col.Update(ctx, "a", map[string]any{"text": "x"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("update err = %v", err)
	}
	backend.failNext(1)
	if err := col.Remove(ctx, "a"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("remove err = %v", err)
	}
	backend.failNext(1)
	err := col.Apply(ctx, func(items []note) ([]note, error) { return nil, nil })
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("apply err = %v", err)
	}

	got := col.LoadAll(ctx)
	if len(got) != 3 || got[0].Text != "" {
		t.Fatalf("state changed: %v", got)
	}
}

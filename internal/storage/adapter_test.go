package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type recorder struct {
	keys   []string
	values []string
}

func (r *recorder) Publish(key string, value json.RawMessage) {
	r.keys = append(r.keys, key)
	r.values = append(r.values, string(value))
}

type failingBackend struct{ *MemoryBackend }

func (failingBackend) Set(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk gone")
}

func TestGetReturnsDefaultWhenMissing(t *testing.T) {
	a := NewAdapter(NewMemoryBackend(), nil)

	got := Get(context.Background(), a, "appointments", []string{"seed"})
	if len(got) != 1 || got[0] != "seed" {
		t.Fatalf("got %v", got)
	}
}

func TestGetReturnsDefaultOnMalformedJSON(t *testing.T) {
	mem := NewMemoryBackend()
	_ = mem.Set(context.Background(), "dailyData", []byte("{not json"))
	a := NewAdapter(mem, nil)

	got := Get(context.Background(), a, "dailyData", map[string]int{"x": 1})
	if got["x"] != 1 {
		t.Fatalf("expected default, got %v", got)
	}
}

func TestGetReturnsDefaultOnBackendError(t *testing.T) {
	a := NewAdapter(failingBackend{NewMemoryBackend()}, nil)

	if got := Get(context.Background(), a, "theme", "light"); got != "light" {
		t.Fatalf("got %q", got)
	}
}

func TestPutPublishesAfterWrite(t *testing.T) {
	rec := &recorder{}
	a := NewAdapter(NewMemoryBackend(), rec)
	ctx := context.Background()

	if !a.Put(ctx, "theme", "dark") {
		t.Fatal("put failed")
	}
	if got := Get(ctx, a, "theme", ""); got != "dark" {
		t.Fatalf("stored %q", got)
	}
	if len(rec.keys) != 1 || rec.keys[0] != "theme" || rec.values[0] != `"dark"` {
		t.Fatalf("published %v %v", rec.keys, rec.values)
	}
}

func TestPutFailureIsNonFatal(t *testing.T) {
	rec := &recorder{}
	a := NewAdapter(failingBackend{NewMemoryBackend()}, rec)

	if a.Put(context.Background(), "sales", map[string]int{}) {
		t.Fatal("expected failure")
	}
	if len(rec.keys) != 0 {
		t.Fatal("failed write must not publish")
	}
}

func TestPutRejectsUnencodable(t *testing.T) {
	a := NewAdapter(NewMemoryBackend(), nil)

	if a.Put(context.Background(), "bad", make(chan int)) {
		t.Fatal("expected encode failure")
	}
}

func TestSnapshotSkipsInvalidValues(t *testing.T) {
	mem := NewMemoryBackend()
	ctx := context.Background()
	_ = mem.Set(ctx, "cashBalance", []byte(`"500"`))
	_ = mem.Set(ctx, "broken", []byte(`{`))
	a := NewAdapter(mem, nil)

	snap, err := a.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap) != 1 || string(snap["cashBalance"]) != `"500"` {
		t.Fatalf("snapshot %v", snap)
	}
}

func TestRemove(t *testing.T) {
	a := NewAdapter(NewMemoryBackend(), nil)
	ctx := context.Background()
	a.Put(ctx, "currentUser", map[string]string{"id": "1"})

	if !a.Remove(ctx, "currentUser") {
		t.Fatal("remove failed")
	}
	if a.Has(ctx, "currentUser") {
		t.Fatal("key still present")
	}
}

func TestLookupSeparatesMissingFromFailure(t *testing.T) {
	ctx := context.Background()

	mem := NewMemoryBackend()
	_ = mem.Set(ctx, "dailyData", []byte("{not json"))
	a := NewAdapter(mem, nil)

	if _, found, err := Lookup(ctx, a, "appointments", []string{}); found || err != nil {
		t.Fatalf("missing: found=%v err=%v", found, err)
	}
	if got, found, err := Lookup(ctx, a, "dailyData", map[string]int{"x": 1}); !found || err != nil || got["x"] != 1 {
		t.Fatalf("malformed: got=%v found=%v err=%v", got, found, err)
	}

	broken := NewAdapter(failingBackend{NewMemoryBackend()}, nil)
	got, found, err := Lookup(ctx, broken, "appointments", []string{"def"})
	if err == nil || found || len(got) != 1 {
		t.Fatalf("failure: got=%v found=%v err=%v", got, found, err)
	}
}

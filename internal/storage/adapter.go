package storage

import (
	"context"
	"encoding/json"
	"log"
)

// Notifier receives every successful write. The change bus implements it.
type Notifier interface {
	Publish(key string, value json.RawMessage)
}

// Adapter wraps a Backend with JSON (de)serialization. Reads degrade to the
// caller's default and writes report success as a bool; neither panics.
// Writes touching several keys are not atomic.
type Adapter struct {
	backend  Backend
	notifier Notifier
}

func NewAdapter(backend Backend, notifier Notifier) *Adapter {
	return &Adapter{backend: backend, notifier: notifier}
}

// Get decodes key into a T, or returns def when the key is missing or
// unreadable.
func Get[T any](ctx context.Context, a *Adapter, key string, def T) T {
	out, _, _ := Lookup(ctx, a, key, def)
	return out
}

// Lookup is Get for read-modify-write callers. A backend failure comes back
// as err with def, so the caller can skip its write. found is false only when
// the backend confirmed the key is absent. A malformed value is found and
// decodes to def.
func Lookup[T any](ctx context.Context, a *Adapter, key string, def T) (out T, found bool, err error) {
	raw, found, err := a.backend.Get(ctx, key)
	if err != nil {
		log.Printf("[storage] read %q failed: %v", key, err)
		return def, false, err
	}
	if !found || len(raw) == 0 {
		return def, found, nil
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		log.Printf("[storage] malformed value under %q: %v", key, err)
		return def, true, nil
	}
	return out, true, nil
}

// Has reports whether key exists, treating backend errors as absent.
func (a *Adapter) Has(ctx context.Context, key string) bool {
	_, found, err := a.backend.Get(ctx, key)
	if err != nil {
		log.Printf("[storage] read %q failed: %v", key, err)
		return false
	}
	return found
}

func (a *Adapter) Put(ctx context.Context, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("[storage] encode %q failed: %v", key, err)
		return false
	}
	return a.PutRaw(ctx, key, raw)
}

func (a *Adapter) PutRaw(ctx context.Context, key string, raw json.RawMessage) bool {
	if err := a.backend.Set(ctx, key, raw); err != nil {
		log.Printf("[storage] write %q failed: %v", key, err)
		return false
	}
	if a.notifier != nil {
		a.notifier.Publish(key, raw)
	}
	return true
}

func (a *Adapter) Remove(ctx context.Context, key string) bool {
	if err := a.backend.Remove(ctx, key); err != nil {
		log.Printf("[storage] remove %q failed: %v", key, err)
		return false
	}
	if a.notifier != nil {
		a.notifier.Publish(key, json.RawMessage("null"))
	}
	return true
}

// Raw returns the stored JSON for key, or nil.
func (a *Adapter) Raw(ctx context.Context, key string) json.RawMessage {
	raw, found, err := a.backend.Get(ctx, key)
	if err != nil {
		log.Printf("[storage] read %q failed: %v", key, err)
		return nil
	}
	if !found {
		return nil
	}
	return raw
}

// Snapshot returns every key with its stored JSON. Values that are not valid
// JSON are skipped so the result always encodes.
func (a *Adapter) Snapshot(ctx context.Context) (map[string]json.RawMessage, error) {
	keys, err := a.backend.Keys(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		raw := a.Raw(ctx, k)
		if raw == nil || !json.Valid(raw) {
			log.Printf("[storage] snapshot skipping %q", k)
			continue
		}
		out[k] = raw
	}
	return out, nil
}

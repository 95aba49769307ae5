package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barbearia-console/internal/storage"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrUnavailable = errors.New("storage unavailable")
)

// Collection owns one storage key holding a JSON array of T. Every mutation
// rewrites the whole array.
type Collection[T any] struct {
	mu sync.Mutex

	store *storage.Adapter
	key   string
	seed  func() []T
	getID func(*T) string
	setID func(*T, string)
}

func NewCollection[T any](
	store *storage.Adapter,
	key string,
	seed func() []T,
	getID func(*T) string,
	setID func(*T, string),
) *Collection[T] {
	return &Collection[T]{
		store: store,
		key:   key,
		seed:  seed,
		getID: getID,
		setID: setID,
	}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// LoadAll returns the stored records. The first access on an empty store
// persists the seed set once. A failed read returns an empty list.
func (c *Collection[T]) LoadAll(ctx context.Context) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, _ := c.load(ctx)
	return items
}

// load seeds only when the backend confirms the key is absent. Callers must
// not save after an error.
func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	items, found, err := storage.Lookup(ctx, c.store, c.key, []T{})
	if err != nil {
		return []T{}, ErrUnavailable
	}
	if found {
		return items, nil
	}

	items = nil
	if c.seed != nil {
		items = c.seed()
	}
	if items == nil {
		items = []T{}
	}
	c.store.Put(ctx, c.key, items)
	return items, nil
}

func (c *Collection[T]) missing(id string) error {
	log.Printf("[repository] %s: id %q not found", c.key, id)
	return ErrNotFound
}

func (c *Collection[T]) Save(ctx context.Context, items []T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, items)
}

func (c *Collection[T]) save(ctx context.Context, items []T) bool {
	if items == nil {
		items = []T{}
	}
	return c.store.Put(ctx, c.key, items)
}

func (c *Collection[T]) Add(ctx context.Context, item T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return item, err
	}
	if c.getID(&item) == "" {
		c.setID(&item, newID())
	}
	c.save(ctx, append(items, item))
	return item, nil
}

func (c *Collection[T]) Find(ctx context.Context, id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, _ := c.load(ctx)
	for _, it := range items {
		if c.getID(&it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, _ := c.load(ctx)
	out := []T{}
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Update shallow-merges patch into the record with id. The id itself is
// never overwritten.
func (c *Collection[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	return c.Mutate(ctx, id, func(it *T) error {
		return mergePatch(it, patch)
	})
}

// Mutate applies fn to the record with id and persists the array when fn
// succeeds.
func (c *Collection[T]) Mutate(ctx context.Context, id string, fn func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.load(ctx)
	if err != nil {
		return zero, err
	}
	for i := range items {
		if c.getID(&items[i]) != id {
			continue
		}
		updated := items[i]
		if err := fn(&updated); err != nil {
			return zero, err
		}
		c.setID(&updated, id)
		items[i] = updated
		c.save(ctx, items)
		return updated, nil
	}
	return zero, c.missing(id)
}

func (c *Collection[T]) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if c.getID(&it) != id {
			out = append(out, it)
		}
	}
	if len(out) == len(items) {
		return c.missing(id)
	}
	c.save(ctx, out)
	return nil
}

// Apply runs fn over the full array under the collection lock. Returning an
// error, or a failed read, leaves storage untouched.
func (c *Collection[T]) Apply(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	c.save(ctx, items)
	return nil
}

func mergePatch[T any](it *T, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}

	raw, err := json.Marshal(it)
	if err != nil {
		return err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return err
	}
	*it = out
	return nil
}

func newID() string {
	return uuid.NewString()
}

package bus

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event announces that a storage key now holds Value.
type Event struct {
	Key    string          `json:"key"`
	Value  json.RawMessage `json:"value"`
	Origin string          `json:"origin"`
	At     time.Time       `json:"at"`
}

type Listener func(Event)

// Forwarder carries local events to other processes.
type Forwarder interface {
	Forward(Event)
}

// Bus is the single in-process change feed. Local writes are fanned out to
// listeners and to the forwarders; remote events only reach listeners.
type Bus struct {
	origin string

	mu         sync.RWMutex
	nextID     int
	listeners  map[int]Listener
	forwarders []Forwarder
}

func New() *Bus {
	return &Bus{
		origin:    uuid.NewString(),
		listeners: map[int]Listener{},
	}
}

func (b *Bus) Origin() string {
	return b.origin
}

func (b *Bus) Subscribe(l Listener) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

func (b *Bus) AddForwarder(f Forwarder) {
	b.mu.Lock()
	b.forwarders = append(b.forwarders, f)
	b.mu.Unlock()
}

// Publish implements storage.Notifier.
func (b *Bus) Publish(key string, value json.RawMessage) {
	ev := Event{
		Key:    key,
		Value:  value,
		Origin: b.origin,
		At:     time.Now().UTC(),
	}

	b.dispatch(ev)

	b.mu.RLock()
	forwarders := append([]Forwarder(nil), b.forwarders...)
	b.mu.RUnlock()

	for _, f := range forwarders {
		f.Forward(ev)
	}
}

// Deliver hands an event received from another process to local listeners.
func (b *Bus) Deliver(ev Event) {
	if ev.Origin == b.origin {
		return
	}
	b.dispatch(ev)
}

func (b *Bus) dispatch(ev Event) {
	b.mu.RLock()
	listeners := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		listeners = append(listeners, l)
	}
	b.mu.RUnlock()

	for _, l := range listeners {
		safeCall(l, ev)
	}
}

func safeCall(l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[bus] listener panic on %q: %v", ev.Key, r)
		}
	}()
	l(ev)
}

package audit

import (
	"log"
	"sync"
)

type Event struct {
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Dispatcher hands events to a Sink on a single worker. Dispatch never
// blocks a request: when the queue is full the event is dropped.
type Dispatcher struct {
	sink  Sink
	queue chan Event
	wg    sync.WaitGroup
	once  sync.Once
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.sink.Log(ev); err != nil {
			log.Printf("[audit] write failed: %v", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		log.Printf("[audit] queue full, dropping %s %s", ev.Action, ev.Entity)
	}
}

// Close drains queued events and stops the worker. Dispatch must not be
// called afterwards.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}

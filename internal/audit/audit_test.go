package audit

import "testing"

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := NewMemorySink(10)
	d := NewDispatcher(sink)

	d.Dispatch(Event{ActorID: "1", Action: "create", Entity: "appointment", EntityID: "a1"})
	d.Dispatch(Event{ActorID: "1", Action: "finish", Entity: "appointment", EntityID: "a1", Metadata: map[string]any{"price": 35}})
	d.Close()

	got, _ := sink.Recent(10)
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Action != "finish" || got[0].Metadata != `{"price":35}` {
		t.Fatalf("newest = %+v", got[0])
	}
}

func TestMemorySinkKeepsNewest(t *testing.T) {
	sink := NewMemorySink(3)
	for _, a := range []string{"a", "b", "c", "d"} {
		sink.Log(Event{Action: a})
	}

	got, _ := sink.Recent(10)
	if len(got) != 3 || got[0].Action != "d" || got[2].Action != "b" {
		t.Fatalf("recent = %+v", got)
	}
}

func TestNilDispatcherIgnoresEvents(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "noop"})
}

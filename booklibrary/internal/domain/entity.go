package domain

// Event is an immutable fact recorded by an aggregate as a side effect of a
// state transition. Events live in the aggregate's buffer until the dispatcher
// drains them before commit; they are never persisted themselves.
type Event interface {
	EventName() string
}

// Entity is the embeddable base giving aggregates a pending-events buffer.
type Entity struct {
	events []Event
}

func (e *Entity) Record(ev Event) {
	e.events = append(e.events, ev)
}

// PendingEvents returns the buffered events without clearing them.
func (e *Entity) PendingEvents() []Event {
	return e.events
}

func (e *Entity) HasEvents() bool {
	return len(e.events) > 0
}

// ClearEvents drops all buffered events.
func (e *Entity) ClearEvents() {
	e.events = nil
}

// Tracked is what the dispatcher needs from any aggregate in a unit of work.
type Tracked interface {
	PendingEvents() []Event
	HasEvents() bool
	ClearEvents()
}

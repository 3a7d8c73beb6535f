package resource

// Handle is an opaque reference to a value in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType identifies a lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event represents a lifecycle event for a handle.
type Event struct {
	Handle Handle
	Type   EventType
}

// Observer receives notifications about lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Dropper is optionally implemented by values that need cleanup when their
// handle is removed or the table is closed.
type Dropper interface {
	Drop()
}

// Event provides the value describing a dispatched router event.
//
// Events are value types. Contexts holds the caller-supplied values that bind
// to the destination state's dynamic segments, outermost first.
//
// Example:
//
//	evt := NewEvent("showComponent", map[string]any{"id": 1})
package primitives

type Event struct {
	Name     string
	Contexts []any
}

// NewEvent creates and returns a new Event.
func NewEvent(name string, contexts ...any) Event {
	return Event{
		Name:     name,
		Contexts: contexts,
	}
}

// HasContext reports whether the event carries at least one context value.
func (e Event) HasContext() bool {
	return len(e.Contexts) > 0
}

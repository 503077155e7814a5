package medusa

import "slices"

// EventIntersection is the name of the event dispatched for every
// intersection state change of a tracked element.
const EventIntersection = "intersectionTriggered"

// Event is the payload dispatched for an intersection change.
type Event struct {
	Name string
	// ID is the id of the target the element belongs to.
	ID string
	// Detail is the raw detector entry.
	Detail IntersectionEntry
	// IsIn mirrors Detail.IsIntersecting.
	IsIn bool
}

// Dispatcher delivers events. Emitter is the in-process implementation; the
// ecs package provides one that publishes into a Donburi world.
type Dispatcher interface {
	Dispatch(Event)
}

// DispatcherFunc adapts a plain function to Dispatcher.
type DispatcherFunc func(Event)

// Dispatch calls f(e).
func (f DispatcherFunc) Dispatch(e Event) { f(e) }

type eventHandler struct {
	id uint32
	fn func(Event)
}

// Emitter is a named-event handler registry. Handlers run synchronously in
// registration order.
type Emitter struct {
	handlers map[string][]eventHandler
	nextID   uint32
}

// NewEmitter creates an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[string][]eventHandler)}
}

// CallbackHandle allows removing a registered handler.
type CallbackHandle struct {
	id   uint32
	name string
	em   *Emitter
}

// Remove unregisters the handler so it no longer fires. Safe to call more
// than once and on the zero handle.
func (h CallbackHandle) Remove() {
	if h.em == nil {
		return
	}
	s := h.em.handlers[h.name]
	for i := range s {
		if s[i].id == h.id {
			h.em.handlers[h.name] = slices.Delete(s, i, i+1)
			return
		}
	}
}

// On registers fn for events with the given name.
func (e *Emitter) On(name string, fn func(Event)) CallbackHandle {
	e.nextID++
	e.handlers[name] = append(e.handlers[name], eventHandler{id: e.nextID, fn: fn})
	return CallbackHandle{id: e.nextID, name: name, em: e}
}

// OnIntersection registers fn for EventIntersection.
func (e *Emitter) OnIntersection(fn func(Event)) CallbackHandle {
	return e.On(EventIntersection, fn)
}

// Dispatch calls every handler registered for ev.Name. Handlers added or
// removed while dispatching take effect from the next dispatch.
func (e *Emitter) Dispatch(ev Event) {
	hs := e.handlers[ev.Name]
	if len(hs) == 0 {
		return
	}
	for _, h := range slices.Clone(hs) {
		h.fn(ev)
	}
}

// Len returns the number of handlers registered for name.
func (e *Emitter) Len(name string) int {
	return len(e.handlers[name])
}

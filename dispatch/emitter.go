// Package dispatch provides the surface that key sources publish to and the
// tracker listens on.
package dispatch

import (
	"errors"
	"slices"
	"sync"

	"keycombo/keyboard"
)

type entry struct {
	id ListenerID
	fn keyboard.Listener
}

type ListenerID = keyboard.ListenerID

// Emitter is an in-process keyboard.Surface. Dispatch is synchronous: it
// returns after every listener for the event type has run.
type Emitter struct {
	mu        sync.Mutex
	nextID    ListenerID
	listeners map[keyboard.EventType][]entry
}

func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[keyboard.EventType][]entry)}
}

func (e *Emitter) AddEventListener(t keyboard.EventType, l keyboard.Listener) ListenerID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.listeners[t] = append(e.listeners[t], entry{id: e.nextID, fn: l})
	return e.nextID
}

// RemoveEventListener is a no-op for unknown IDs.
func (e *Emitter) RemoveEventListener(t keyboard.EventType, id ListenerID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[t] = slices.DeleteFunc(e.listeners[t], func(en entry) bool {
		return en.id == id
	})
}

// Len returns the number of listeners registered for t.
func (e *Emitter) Len(t keyboard.EventType) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[t])
}

// Dispatch delivers ev to the listeners registered at the time of the call.
// Listener errors are joined; a failing listener does not stop the rest.
func (e *Emitter) Dispatch(ev keyboard.Event) error {
	e.mu.Lock()
	snapshot := slices.Clone(e.listeners[ev.Type])
	e.mu.Unlock()

	var errs []error
	for _, en := range snapshot {
		if err := en.fn(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

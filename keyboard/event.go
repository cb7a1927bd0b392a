package keyboard

import (
	"time"

	"keycombo/combo"
)

// EventType names a signal on a Surface.
type EventType string

const (
	KeyDown EventType = "keydown"
	KeyUp   EventType = "keyup"
)

// Event is a single press or release. Code is the physical key code as
// delivered by the source; the tracker folds modifier variants itself.
type Event struct {
	Type EventType
	Code combo.Key
	Time time.Time
}

// Down builds a keydown event stamped with the current time.
func Down(code combo.Key) Event {
	return Event{Type: KeyDown, Code: code, Time: time.Now()}
}

// Up builds a keyup event stamped with the current time.
func Up(code combo.Key) Event {
	return Event{Type: KeyUp, Code: code, Time: time.Now()}
}

// ListenerID identifies a listener registration on a Surface.
type ListenerID uint64

// Listener receives events from a Surface.
type Listener func(Event) error

// Surface delivers named key events to registered listeners. Listeners are
// removed by the ID returned when they were added.
type Surface interface {
	AddEventListener(t EventType, l Listener) ListenerID
	RemoveEventListener(t EventType, id ListenerID)
}

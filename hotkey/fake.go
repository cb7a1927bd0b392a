package hotkey

import (
	"keycombo/combo"
	"keycombo/keyboard"
)

// Fake is a Source driven by the caller, for tests and headless runs.
type Fake struct {
	events     chan keyboard.Event
	registered bool
}

func NewFake() *Fake {
	return &Fake{events: make(chan keyboard.Event, 16)}
}

// NewLockstepFake returns a Fake with an unbuffered channel: each Sim call
// blocks until the consumer has taken the event, and Flush returns only once
// every earlier event has been fully handled.
func NewLockstepFake() *Fake {
	return &Fake{events: make(chan keyboard.Event)}
}

// flushEvent has no listeners; delivering it only proves the consumer is
// back in its receive loop.
const flushEvent keyboard.EventType = "flush"

func (f *Fake) Register() error               { f.registered = true; return nil }
func (f *Fake) Unregister()                   { f.registered = false }
func (f *Fake) Events() <-chan keyboard.Event { return f.events }
func (f *Fake) Registered() bool              { return f.registered }

func (f *Fake) SimKeydown(code combo.Key) { f.events <- keyboard.Down(code) }
func (f *Fake) SimKeyup(code combo.Key)   { f.events <- keyboard.Up(code) }

// Flush waits until the consumer is done with every event sent before it.
// Only meaningful on a lockstep fake with a single-goroutine consumer.
func (f *Fake) Flush() { f.events <- keyboard.Event{Type: flushEvent} }

// SimChord presses every key in c in order, then releases them in reverse.
func (f *Fake) SimChord(c combo.Combo) {
	for _, k := range c {
		f.SimKeydown(k)
	}
	for i := len(c) - 1; i >= 0; i-- {
		f.SimKeyup(c[i])
	}
}

// Package hotkey reads physical key presses and releases and publishes them
// as keyboard events.
package hotkey

import "keycombo/keyboard"

// Source produces keydown/keyup events until Unregister is called.
type Source interface {
	Register() error
	Unregister()
	Events() <-chan keyboard.Event
}

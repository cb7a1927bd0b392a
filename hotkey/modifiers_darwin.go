package hotkey

import (
	"golang.design/x/hotkey"

	"keycombo/combo"
	"keycombo/keycode"
)

// osModifier maps a canonical modifier to its Cocoa flag. meta is Cmd and
// alt is Option.
func osModifier(k combo.Key) (hotkey.Modifier, bool) {
	switch k {
	case keycode.Ctrl:
		return hotkey.ModCtrl, true
	case keycode.Shift:
		return hotkey.ModShift, true
	case keycode.Alt:
		return hotkey.ModOption, true
	case keycode.Meta:
		return hotkey.ModCmd, true
	}
	return 0, false
}

package hotkey

import (
	"golang.design/x/hotkey"

	"keycombo/combo"
	"keycombo/keycode"
)

// osModifier maps a canonical modifier to its Win32 flag. meta is the
// Windows key.
func osModifier(k combo.Key) (hotkey.Modifier, bool) {
	switch k {
	case keycode.Ctrl:
		return hotkey.ModCtrl, true
	case keycode.Shift:
		return hotkey.ModShift, true
	case keycode.Alt:
		return hotkey.ModAlt, true
	case keycode.Meta:
		return hotkey.ModWin, true
	}
	return 0, false
}

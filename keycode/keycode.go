// Package keycode maps human-readable key names to Linux input-event codes
// and folds left/right modifier variants into one logical key.
package keycode

import (
	"fmt"
	"slices"
	"strings"

	"keycombo/combo"
)

// Linux input-event codes (include/uapi/linux/input-event-codes.h).
const (
	Esc        combo.Key = 1
	Minus      combo.Key = 12
	Equal      combo.Key = 13
	Backspace  combo.Key = 14
	Tab        combo.Key = 15
	LeftBrace  combo.Key = 26
	RightBrace combo.Key = 27
	Enter      combo.Key = 28
	LeftCtrl   combo.Key = 29
	Semicolon  combo.Key = 39
	Apostrophe combo.Key = 40
	Grave      combo.Key = 41
	LeftShift  combo.Key = 42
	Backslash  combo.Key = 43
	Comma      combo.Key = 51
	Dot        combo.Key = 52
	Slash      combo.Key = 53
	RightShift combo.Key = 54
	LeftAlt    combo.Key = 56
	Space      combo.Key = 57
	CapsLock   combo.Key = 58
	F1         combo.Key = 59
	F11        combo.Key = 87
	F12        combo.Key = 88
	RightCtrl  combo.Key = 97
	RightAlt   combo.Key = 100
	Home       combo.Key = 102
	Up         combo.Key = 103
	PageUp     combo.Key = 104
	Left       combo.Key = 105
	Right      combo.Key = 106
	End        combo.Key = 107
	Down       combo.Key = 108
	PageDown   combo.Key = 109
	Insert     combo.Key = 110
	Delete     combo.Key = 111
	LeftMeta   combo.Key = 125
	RightMeta  combo.Key = 126
)

// Logical modifiers. These are the codes the tracker stores after folding.
const (
	Ctrl  = LeftCtrl
	Shift = LeftShift
	Alt   = LeftAlt
	Meta  = LeftMeta
)

var byName = map[string]combo.Key{
	"esc": Esc, "escape": Esc,
	"-": Minus, "minus": Minus,
	"=": Equal, "equal": Equal,
	"backspace": Backspace,
	"tab":       Tab,
	"[":         LeftBrace, "]": RightBrace,
	"enter": Enter, "return": Enter,
	";": Semicolon, "'": Apostrophe, "`": Grave, "\\": Backslash,
	",": Comma, ".": Dot, "/": Slash,
	"space":    Space,
	"capslock": CapsLock,
	"home":     Home, "end": End,
	"pageup": PageUp, "pagedown": PageDown,
	"up": Up, "down": Down, "left": Left, "right": Right,
	"insert": Insert, "delete": Delete, "del": Delete,

	"ctrl": Ctrl, "control": Ctrl, "lctrl": LeftCtrl, "rctrl": RightCtrl,
	"shift": Shift, "lshift": LeftShift, "rshift": RightShift,
	"alt": Alt, "option": Alt, "lalt": LeftAlt, "ralt": RightAlt,
	"meta": Meta, "cmd": Meta, "command": Meta, "super": Meta, "win": Meta,
	"lmeta": LeftMeta, "rmeta": RightMeta,
}

var names = map[combo.Key]string{}

func init() {
	rows := []struct {
		first combo.Key
		keys  string
	}{
		{16, "qwertyuiop"},
		{30, "asdfghjkl"},
		{44, "zxcvbnm"},
	}
	for _, r := range rows {
		for i, ch := range r.keys {
			byName[string(ch)] = r.first + combo.Key(i)
		}
	}
	for i, ch := range "1234567890" {
		byName[string(ch)] = 2 + combo.Key(i)
	}
	for i := 0; i < 10; i++ {
		byName[fmt.Sprintf("f%d", i+1)] = F1 + combo.Key(i)
	}
	byName["f11"] = F11
	byName["f12"] = F12

	for name, k := range byName {
		if cur, ok := names[k]; !ok || preferName(name, cur) {
			names[k] = name
		}
	}
	names[Ctrl], names[Shift], names[Alt], names[Meta] = "ctrl", "shift", "alt", "meta"
}

// preferName picks a stable display name when several aliases share a code.
func preferName(candidate, current string) bool {
	if len(candidate) != len(current) {
		return len(candidate) > len(current)
	}
	return candidate < current
}

// Canonical folds right-hand modifier codes onto their left-hand twin so a
// combo written with a logical modifier matches either physical key.
func Canonical(k combo.Key) combo.Key {
	switch k {
	case RightCtrl:
		return LeftCtrl
	case RightShift:
		return LeftShift
	case RightAlt:
		return LeftAlt
	case RightMeta:
		return LeftMeta
	}
	return k
}

// IsModifier reports whether k is a (canonical) modifier key.
func IsModifier(k combo.Key) bool {
	switch Canonical(k) {
	case Ctrl, Shift, Alt, Meta:
		return true
	}
	return false
}

// Lookup returns the code for a key name. Names are case-insensitive.
func Lookup(name string) (combo.Key, bool) {
	k, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// Name returns the display name of k, or "key<code>" when unknown.
func Name(k combo.Key) string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("key%d", k)
}

// Parse converts "ctrl+shift+a" into a combo. A literal "+" key is not
// supported; use "=" with shift instead.
func Parse(s string) (combo.Combo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty key spec", combo.ErrInvalidCombo)
	}
	parts := strings.Split(s, "+")
	out := make(combo.Combo, 0, len(parts))
	for _, p := range parts {
		k, ok := Lookup(p)
		if !ok {
			return nil, fmt.Errorf("%w: unknown key %q in %q", combo.ErrInvalidCombo, strings.TrimSpace(p), s)
		}
		out = append(out, k)
	}
	return out, nil
}

// Format renders c as "ctrl+shift+a": modifiers first, in a fixed order,
// then the remaining keys by code.
func Format(c combo.Combo) string {
	keys := slices.Clone(c)
	slices.SortFunc(keys, func(a, b combo.Key) int {
		ra, rb := modRank(a), modRank(b)
		if ra != rb {
			return ra - rb
		}
		return int(a) - int(b)
	})
	keys = slices.Compact(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = Name(k)
	}
	return strings.Join(parts, "+")
}

func modRank(k combo.Key) int {
	switch Canonical(k) {
	case Ctrl:
		return 0
	case Alt:
		return 1
	case Shift:
		return 2
	case Meta:
		return 3
	}
	return 4
}

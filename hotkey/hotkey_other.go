//go:build !linux

package hotkey

import (
	"errors"
	"fmt"
	"sync"

	"golang.design/x/hotkey"

	"keycombo/combo"
	"keycombo/keyboard"
	"keycombo/keycode"
	"keycombo/log"
)

var errUnsupportedCombo = errors.New("combo not supported by OS hotkey registration")

var xKeys = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"space":  hotkey.KeySpace,
	"return": hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
	"delete": hotkey.KeyDelete,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"f1":     hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}

type registration struct {
	hk    *hotkey.Hotkey
	combo combo.Combo
}

// xSource registers each combo with the OS (X11/Cocoa/Win32) and expands
// the hotkey's keydown/keyup into per-key events. Each combo needs exactly
// one non-modifier key; modifiers map through osModifier.
type xSource struct {
	combos []combo.Combo
	regs   []registration
	events chan keyboard.Event
	stop   chan struct{}
	once   sync.Once
}

func New(combos []combo.Combo) Source {
	return &xSource{
		combos: combos,
		events: make(chan keyboard.Event, 64),
		stop:   make(chan struct{}),
	}
}

func toHotkey(c combo.Combo) ([]hotkey.Modifier, hotkey.Key, error) {
	var mods []hotkey.Modifier
	var key hotkey.Key
	found := false
	for _, k := range c {
		if keycode.IsModifier(k) {
			mod, ok := osModifier(keycode.Canonical(k))
			if !ok {
				return nil, 0, fmt.Errorf("%w: %s", errUnsupportedCombo, keycode.Format(c))
			}
			mods = append(mods, mod)
			continue
		}
		xk, ok := xKeys[keycode.Name(k)]
		if !ok || found {
			return nil, 0, fmt.Errorf("%w: %s", errUnsupportedCombo, keycode.Format(c))
		}
		key, found = xk, true
	}
	if !found {
		return nil, 0, fmt.Errorf("%w: %s has no main key", errUnsupportedCombo, keycode.Format(c))
	}
	return mods, key, nil
}

// Register grabs every combo the OS can express. Combos it cannot are
// skipped with a warning; it fails only when nothing could be registered.
func (s *xSource) Register() error {
	var skipped []error
	for _, c := range s.combos {
		mods, key, err := toHotkey(c)
		if err == nil {
			hk := hotkey.New(mods, key)
			if err = hk.Register(); err == nil {
				reg := registration{hk: hk, combo: c}
				s.regs = append(s.regs, reg)
				go s.forward(reg)
				continue
			}
			err = fmt.Errorf("register %s: %w", keycode.Format(c), err)
		}
		log.Warnf("hotkey: skipping %v", err)
		skipped = append(skipped, err)
	}
	if len(s.regs) == 0 && len(skipped) > 0 {
		return errors.Join(skipped...)
	}
	return nil
}

func (s *xSource) forward(reg registration) {
	for {
		select {
		case <-s.stop:
			return
		case <-reg.hk.Keydown():
			for _, k := range reg.combo {
				if !s.send(keyboard.Down(k)) {
					return
				}
			}
		case <-reg.hk.Keyup():
			for _, k := range reg.combo {
				if !s.send(keyboard.Up(k)) {
					return
				}
			}
		}
	}
}

func (s *xSource) send(ev keyboard.Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.stop:
		return false
	}
}

func (s *xSource) unregisterAll() {
	for _, r := range s.regs {
		r.hk.Unregister()
	}
	s.regs = nil
}

func (s *xSource) Unregister() {
	s.once.Do(func() {
		close(s.stop)
		s.unregisterAll()
	})
}

func (s *xSource) Events() <-chan keyboard.Event {
	return s.events
}

// Diagnose checks hotkey availability and returns a status message.
func Diagnose() (string, error) {
	return "OS hotkey registration available (ctrl, shift, alt, meta + one key)", nil
}

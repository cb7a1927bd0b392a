package action

import (
	"context"
	"fmt"
	"sync"

	"github.com/micmonay/keybd_event"

	"keycombo/keycode"
)

var vkByName = map[string]int{
	"a": keybd_event.VK_A, "b": keybd_event.VK_B, "c": keybd_event.VK_C, "d": keybd_event.VK_D,
	"e": keybd_event.VK_E, "f": keybd_event.VK_F, "g": keybd_event.VK_G, "h": keybd_event.VK_H,
	"i": keybd_event.VK_I, "j": keybd_event.VK_J, "k": keybd_event.VK_K, "l": keybd_event.VK_L,
	"m": keybd_event.VK_M, "n": keybd_event.VK_N, "o": keybd_event.VK_O, "p": keybd_event.VK_P,
	"q": keybd_event.VK_Q, "r": keybd_event.VK_R, "s": keybd_event.VK_S, "t": keybd_event.VK_T,
	"u": keybd_event.VK_U, "v": keybd_event.VK_V, "w": keybd_event.VK_W, "x": keybd_event.VK_X,
	"y": keybd_event.VK_Y, "z": keybd_event.VK_Z,
	"0": keybd_event.VK_0, "1": keybd_event.VK_1, "2": keybd_event.VK_2, "3": keybd_event.VK_3,
	"4": keybd_event.VK_4, "5": keybd_event.VK_5, "6": keybd_event.VK_6, "7": keybd_event.VK_7,
	"8": keybd_event.VK_8, "9": keybd_event.VK_9,
	"space":  keybd_event.VK_SPACE,
	"tab":    keybd_event.VK_TAB,
	"return": keybd_event.VK_ENTER,
	"escape": keybd_event.VK_ESC,
	"f1":     keybd_event.VK_F1, "f2": keybd_event.VK_F2, "f3": keybd_event.VK_F3, "f4": keybd_event.VK_F4,
	"f5": keybd_event.VK_F5, "f6": keybd_event.VK_F6, "f7": keybd_event.VK_F7, "f8": keybd_event.VK_F8,
	"f9": keybd_event.VK_F9, "f10": keybd_event.VK_F10, "f11": keybd_event.VK_F11, "f12": keybd_event.VK_F12,
}

type chordPlan struct {
	keys                    []int
	ctrl, shift, alt, super bool
}

func planChord(spec string) (chordPlan, error) {
	c, err := keycode.Parse(spec)
	if err != nil {
		return chordPlan{}, err
	}
	var p chordPlan
	for _, k := range c {
		switch keycode.Canonical(k) {
		case keycode.Ctrl:
			p.ctrl = true
		case keycode.Shift:
			p.shift = true
		case keycode.Alt:
			p.alt = true
		case keycode.Meta:
			p.super = true
		default:
			vk, ok := vkByName[keycode.Name(k)]
			if !ok {
				return chordPlan{}, fmt.Errorf("key %q cannot be synthesised", keycode.Name(k))
			}
			p.keys = append(p.keys, vk)
		}
	}
	if len(p.keys) == 0 {
		return chordPlan{}, fmt.Errorf("send %q: needs at least one non-modifier key", spec)
	}
	return p, nil
}

var (
	kb     keybd_event.KeyBonding
	kbMu   sync.Mutex
	kbOnce sync.Once
	kbErr  error
)

// InitSend prepares the virtual keyboard. On Linux this opens /dev/uinput,
// and the device needs a moment before the first chord is seen.
func InitSend() error {
	kbOnce.Do(func() {
		kb, kbErr = keybd_event.NewKeyBonding()
	})
	return kbErr
}

// Send types a key chord into the focused window.
type Send struct {
	Spec string
	plan chordPlan
}

func (s Send) Run(context.Context) error {
	if err := InitSend(); err != nil {
		return fmt.Errorf("virtual keyboard: %w", err)
	}
	kbMu.Lock()
	defer kbMu.Unlock()
	kb.Clear()
	kb.SetKeys(s.plan.keys...)
	kb.HasCTRL(s.plan.ctrl)
	kb.HasSHIFT(s.plan.shift)
	kb.HasALT(s.plan.alt)
	kb.HasSuper(s.plan.super)
	return kb.Launching()
}

func (s Send) String() string { return "send " + s.Spec }

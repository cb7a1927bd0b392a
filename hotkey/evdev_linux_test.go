//go:build linux

package hotkey

import (
	"testing"

	"github.com/holoplot/go-evdev"

	"keycombo/keyboard"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		ev     evdev.InputEvent
		want   keyboard.EventType
		wantOK bool
	}{
		{"press", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: keyPress}, keyboard.KeyDown, true},
		{"repeat", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: keyRepeat}, keyboard.KeyDown, true},
		{"release", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: keyRelease}, keyboard.KeyUp, true},
		{"sync", evdev.InputEvent{Type: evdev.EV_SYN}, "", false},
		{"bad value", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: 7}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(&tt.ev)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (got.Type != tt.want || got.Code != 30) {
				t.Errorf("got %s %d, want %s 30", got.Type, got.Code, tt.want)
			}
		})
	}
}

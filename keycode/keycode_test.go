package keycode

import (
	"errors"
	"slices"
	"testing"

	"keycombo/combo"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want combo.Key
	}{
		{"a", 30},
		{"A", 30},
		{"q", 16},
		{"z", 44},
		{"m", 50},
		{"1", 2},
		{"0", 11},
		{"f1", 59},
		{"F10", 68},
		{"f12", 88},
		{"space", Space},
		{"cmd", Meta},
		{"super", Meta},
		{"rmeta", RightMeta},
		{" ctrl ", Ctrl},
	}
	for _, tt := range tests {
		got, ok := Lookup(tt.name)
		if !ok {
			t.Errorf("Lookup(%q) not found", tt.name)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}

	if _, ok := Lookup("hyper"); ok {
		t.Error("Lookup(hyper) should fail")
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("Ctrl+Shift+Space")
	if err != nil {
		t.Fatal(err)
	}
	want := combo.Combo{Ctrl, Shift, Space}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", []combo.Key(got), []combo.Key(want))
	}
}

func TestParseErrors(t *testing.T) {
	for _, spec := range []string{"", "  ", "ctrl+", "ctrl+nope"} {
		_, err := Parse(spec)
		if !errors.Is(err, combo.ErrInvalidCombo) {
			t.Errorf("Parse(%q) = %v, want ErrInvalidCombo", spec, err)
		}
	}
}

func TestCanonical(t *testing.T) {
	pairs := [][2]combo.Key{
		{RightMeta, LeftMeta},
		{LeftMeta, LeftMeta},
		{RightCtrl, LeftCtrl},
		{RightShift, LeftShift},
		{RightAlt, LeftAlt},
		{Space, Space},
	}
	for _, p := range pairs {
		if got := Canonical(p[0]); got != p[1] {
			t.Errorf("Canonical(%d) = %d, want %d", p[0], got, p[1])
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   combo.Combo
		want string
	}{
		{combo.Combo{Space, Shift, Ctrl}, "ctrl+shift+space"},
		{combo.Combo{30, Meta}, "meta+a"},
		{combo.Combo{Alt, Ctrl, Alt, F1}, "ctrl+alt+f1"},
		{combo.Combo{999}, "key999"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", []combo.Key(tt.in), got, tt.want)
		}
	}
}

func TestIsModifier(t *testing.T) {
	if !IsModifier(RightMeta) || !IsModifier(Ctrl) {
		t.Error("expected modifiers")
	}
	if IsModifier(Space) {
		t.Error("space is not a modifier")
	}
}

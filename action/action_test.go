package action

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/micmonay/keybd_event"

	"keycombo/config"
)

func TestFromBinding(t *testing.T) {
	tests := []struct {
		b    config.Binding
		want string
	}{
		{config.Binding{Action: config.ActionRun, Command: "true"}, "run true"},
		{config.Binding{Action: config.ActionSend, Send: "ctrl+v"}, "send ctrl+v"},
		{config.Binding{Action: config.ActionCopy, Text: "abc"}, "copy 3 bytes"},
		{config.Binding{Action: config.ActionNotify, Message: "hi"}, "notify keycombo"},
		{config.Binding{Name: "x"}, "log"},
	}
	for _, tt := range tests {
		a, err := FromBinding(tt.b)
		if err != nil {
			t.Errorf("FromBinding(%+v): %v", tt.b, err)
			continue
		}
		if got := a.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	if _, err := FromBinding(config.Binding{Action: "explode"}); err == nil {
		t.Error("expected error for unknown action")
	}
	if _, err := FromBinding(config.Binding{Action: config.ActionSend, Send: "ctrl+shift"}); err == nil {
		t.Error("expected error for modifier-only chord")
	}
}

func TestPlanChord(t *testing.T) {
	p, err := planChord("ctrl+shift+v")
	if err != nil {
		t.Fatal(err)
	}
	if !p.ctrl || !p.shift || p.alt || p.super {
		t.Errorf("modifiers = %+v", p)
	}
	if !slices.Equal(p.keys, []int{keybd_event.VK_V}) {
		t.Errorf("keys = %v, want [VK_V]", p.keys)
	}

	p, err = planChord("cmd+rmeta+a")
	if err != nil {
		t.Fatal(err)
	}
	if !p.super || len(p.keys) != 1 {
		t.Errorf("got %+v", p)
	}

	if _, err := planChord("ctrl+home"); err == nil {
		t.Error("expected error for key without a virtual code")
	}
}

func TestCommandRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	out := filepath.Join(t.TempDir(), "out.txt")
	c := Command{Line: "echo fired > " + out}
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "fired" {
		t.Errorf("got %q", data)
	}
}

func TestCommandRunFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	err := Command{Line: "echo nope; exit 3"}.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Errorf("error should include output, got %v", err)
	}
}

func TestLogRun(t *testing.T) {
	if err := (Log{Name: "marker"}).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
}

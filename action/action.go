// Package action runs what a binding asks for when its combo fires.
package action

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	cb "github.com/atotto/clipboard"
	"github.com/gen2brain/beeep"

	"keycombo/config"
	"keycombo/log"
)

// Action is the work bound to a combo.
type Action interface {
	Run(ctx context.Context) error
	String() string
}

// FromBinding builds the action described by b.
func FromBinding(b config.Binding) (Action, error) {
	switch b.Action {
	case config.ActionRun:
		return Command{Line: b.Command}, nil
	case config.ActionSend:
		plan, err := planChord(b.Send)
		if err != nil {
			return nil, err
		}
		return Send{Spec: b.Send, plan: plan}, nil
	case config.ActionCopy:
		return Copy{Text: b.Text}, nil
	case config.ActionNotify:
		title := b.Title
		if title == "" {
			title = "keycombo"
		}
		return Notify{Title: title, Message: b.Message}, nil
	case config.ActionLog, "":
		return Log{Name: b.Name}, nil
	}
	return nil, fmt.Errorf("unknown action %q", b.Action)
}

// Command runs a shell command line and waits for it.
type Command struct {
	Line string
}

func shellCommand(ctx context.Context, line string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", line)
	}
	return exec.CommandContext(ctx, "sh", "-c", line)
}

func (c Command) Run(ctx context.Context) error {
	out, err := shellCommand(ctx, c.Line).CombinedOutput()
	if err != nil {
		return fmt.Errorf("run %q: %w (output: %s)", c.Line, err, truncate(string(out), 200))
	}
	return nil
}

func (c Command) String() string { return "run " + c.Line }

// Copy writes text to the system clipboard.
type Copy struct {
	Text string
}

func (c Copy) Run(context.Context) error {
	if err := cb.WriteAll(c.Text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	return nil
}

func (c Copy) String() string { return fmt.Sprintf("copy %d bytes", len(c.Text)) }

// Notify shows a desktop notification.
type Notify struct {
	Title   string
	Message string
}

func (n Notify) Run(context.Context) error {
	return beeep.Notify(n.Title, n.Message, "")
}

func (n Notify) String() string { return "notify " + n.Title }

// Log only records that the binding fired.
type Log struct {
	Name string
}

func (l Log) Run(context.Context) error {
	log.Info("binding_log: " + l.Name)
	return nil
}

func (l Log) String() string { return "log" }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

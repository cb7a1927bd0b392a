package main

import (
	"fmt"
	"io"
	"time"
)

// EventSink abstracts the display layer so both the Bubble Tea monitor and
// the plain headless output receive the same tracker events.
type EventSink interface {
	HeldKeys(keys string)
	ComboFired(binding, keys, action string)
	ActionFailed(binding string, err error)
	PauseChanged(paused bool)
}

// lineSink prints one line per fire or failure. Used when -tui=false.
type lineSink struct {
	out io.Writer
}

func (s lineSink) HeldKeys(string) {}

func (s lineSink) ComboFired(binding, keys, action string) {
	fmt.Fprintf(s.out, "%s  %-20s %-24s %s\n", time.Now().Format("15:04:05"), binding, keys, action)
}

func (s lineSink) ActionFailed(binding string, err error) {
	fmt.Fprintf(s.out, "%s  %-20s error: %v\n", time.Now().Format("15:04:05"), binding, err)
}

func (s lineSink) PauseChanged(paused bool) {
	state := "resumed"
	if paused {
		state = "paused"
	}
	fmt.Fprintf(s.out, "%s  %s\n", time.Now().Format("15:04:05"), state)
}

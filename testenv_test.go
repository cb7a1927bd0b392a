package main

import (
	"context"
	"strings"
	"testing"

	"keycombo/config"
	"keycombo/hotkey"
)

func runScript(t *testing.T, cfg *config.Config, script string) (*recordSink, error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fk := hotkey.NewLockstepFake()
	sink := &recordSink{}
	d, err := newDaemon(ctx, cfg, fk, sink)
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	scriptErr := driveScript(strings.NewReader(script), fk, d)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	d.Close()
	return sink, scriptErr
}

func TestDriveScript(t *testing.T) {
	sink, err := runScript(t, markerConfig(), strings.Join([]string{
		"# marker twice, once while paused",
		"CHORD ctrl+shift+m",
		"PAUSE",
		"CHORD ctrl+shift+m",
		"PAUSE",
		"DOWN rmeta",
		"DOWN m",
		"UP m",
		"UP rmeta",
		"WAIT",
		"QUIT",
		"CHORD ctrl+shift+m",
	}, "\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, fired, _ := sink.counts(); fired != 2 {
		t.Errorf("fired = %d, want 2", fired)
	}
}

func TestDriveScriptWaitCoversActions(t *testing.T) {
	cfg := &config.Config{Bindings: []config.Binding{
		{Name: "slow", Keys: []string{"ctrl+b"}, Action: config.ActionRun, Command: "sleep 0.1; exit 1"},
	}}
	sink, err := runScript(t, cfg, "CHORD ctrl+b\nWAIT\n")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, failed := sink.counts(); failed != 1 {
		t.Errorf("failed = %d, want 1 right after WAIT", failed)
	}
}

func TestDriveScriptErrors(t *testing.T) {
	for _, script := range []string{"DOWN nokey", "CHORD ctrl+", "SLEEP soon", "JUMP"} {
		if _, err := runScript(t, markerConfig(), script); err == nil {
			t.Errorf("%q: expected error", script)
		}
	}
}

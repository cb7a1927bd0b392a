package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"keycombo/keyboard"
)

func TestEmitterDeliversByType(t *testing.T) {
	e := NewEmitter()
	var downs, ups int
	e.AddEventListener(keyboard.KeyDown, func(keyboard.Event) error { downs++; return nil })
	e.AddEventListener(keyboard.KeyUp, func(keyboard.Event) error { ups++; return nil })

	e.Dispatch(keyboard.Down(30))
	e.Dispatch(keyboard.Down(30))
	e.Dispatch(keyboard.Up(30))

	if downs != 2 || ups != 1 {
		t.Errorf("downs=%d ups=%d, want 2 and 1", downs, ups)
	}
}

func TestEmitterRemove(t *testing.T) {
	e := NewEmitter()
	calls := 0
	id := e.AddEventListener(keyboard.KeyDown, func(keyboard.Event) error { calls++; return nil })
	e.RemoveEventListener(keyboard.KeyDown, id)
	e.RemoveEventListener(keyboard.KeyDown, id)
	e.RemoveEventListener(keyboard.KeyUp, 999)

	e.Dispatch(keyboard.Down(30))
	if calls != 0 {
		t.Errorf("removed listener called %d times", calls)
	}
	if n := e.Len(keyboard.KeyDown); n != 0 {
		t.Errorf("Len = %d, want 0", n)
	}
}

func TestEmitterSnapshotsListeners(t *testing.T) {
	e := NewEmitter()
	var second int
	var secondID ListenerID
	e.AddEventListener(keyboard.KeyDown, func(keyboard.Event) error {
		e.RemoveEventListener(keyboard.KeyDown, secondID)
		e.AddEventListener(keyboard.KeyDown, func(keyboard.Event) error { return nil })
		return nil
	})
	secondID = e.AddEventListener(keyboard.KeyDown, func(keyboard.Event) error { second++; return nil })

	e.Dispatch(keyboard.Down(30))
	if second != 1 {
		t.Errorf("listener removed mid-dispatch should still see the current event, got %d calls", second)
	}
	if n := e.Len(keyboard.KeyDown); n != 2 {
		t.Errorf("Len = %d, want 2", n)
	}
}

func TestEmitterJoinsErrors(t *testing.T) {
	e := NewEmitter()
	errA := errors.New("a")
	errB := errors.New("b")
	ran := 0
	e.AddEventListener(keyboard.KeyDown, func(keyboard.Event) error { ran++; return errA })
	e.AddEventListener(keyboard.KeyDown, func(keyboard.Event) error { ran++; return errB })

	err := e.Dispatch(keyboard.Down(30))
	if ran != 2 {
		t.Errorf("ran %d listeners, want 2", ran)
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("got %v, want both errors", err)
	}
}

func TestPumpPreservesOrder(t *testing.T) {
	e := NewEmitter()
	var got []keyboard.EventType
	record := func(ev keyboard.Event) error { got = append(got, ev.Type); return nil }
	e.AddEventListener(keyboard.KeyDown, record)
	e.AddEventListener(keyboard.KeyUp, record)

	events := make(chan keyboard.Event, 4)
	events <- keyboard.Down(30)
	events <- keyboard.Up(30)
	events <- keyboard.Down(57)
	close(events)

	if err := NewPump(e, nil).Run(context.Background(), events); err != nil {
		t.Fatal(err)
	}
	want := []keyboard.EventType{keyboard.KeyDown, keyboard.KeyUp, keyboard.KeyDown}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPumpReportsErrors(t *testing.T) {
	e := NewEmitter()
	boom := errors.New("boom")
	e.AddEventListener(keyboard.KeyDown, func(keyboard.Event) error { return boom })

	var reported error
	events := make(chan keyboard.Event, 1)
	events <- keyboard.Down(30)
	close(events)

	NewPump(e, func(_ keyboard.Event, err error) { reported = err }).Run(context.Background(), events)
	if !errors.Is(reported, boom) {
		t.Errorf("got %v, want boom", reported)
	}
}

func TestPumpStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewPump(NewEmitter(), nil).Run(ctx, make(chan keyboard.Event))
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for pump to stop")
	}
}

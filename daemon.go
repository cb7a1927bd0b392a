package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"keycombo/action"
	"keycombo/combo"
	"keycombo/config"
	"keycombo/dispatch"
	"keycombo/hotkey"
	"keycombo/keyboard"
	"keycombo/keycode"
	"keycombo/log"
)

const actionTimeout = 30 * time.Second

// daemon wires a key source, the dispatch surface, the tracker and the
// configured actions together.
type daemon struct {
	src  hotkey.Source
	em   *dispatch.Emitter
	kb   *keyboard.Keyboard
	sink EventSink

	fired   atomic.Int64
	actions sync.WaitGroup
	ctx     context.Context
}

func newDaemon(ctx context.Context, cfg *config.Config, src hotkey.Source, sink EventSink) (*daemon, error) {
	em := dispatch.NewEmitter()
	d := &daemon{
		src:  src,
		em:   em,
		sink: sink,
		ctx:  ctx,
		kb: keyboard.New(em,
			keyboard.WithRepeatPolicy(cfg.RepeatPolicy()),
			keyboard.WithLogger(log.Logger()),
		),
	}
	for _, b := range cfg.Bindings {
		if err := d.bind(b); err != nil {
			d.kb.Clear()
			return nil, fmt.Errorf("binding %s: %w", b.Name, err)
		}
	}

	// Registered after the tracker so the held set is already updated.
	report := func(keyboard.Event) error {
		d.sink.HeldKeys(keycode.Format(d.kb.Held()))
		return nil
	}
	em.AddEventListener(keyboard.KeyDown, report)
	em.AddEventListener(keyboard.KeyUp, report)
	return d, nil
}

func (d *daemon) bind(b config.Binding) error {
	act, err := action.FromBinding(b)
	if err != nil {
		return err
	}
	combos, err := b.Combos()
	if err != nil {
		return err
	}
	return d.kb.On(combos, func(keyboard.Event) error {
		d.fire(b.Name, act)
		return nil
	})
}

func (d *daemon) fire(name string, act action.Action) {
	keys := keycode.Format(d.kb.Held())
	d.fired.Add(1)
	log.ComboFired(name, keys, act.String())
	d.sink.ComboFired(name, keys, act.String())

	// Actions may block (shell commands, notifications); never stall the pump.
	d.actions.Add(1)
	go func() {
		defer d.actions.Done()
		ctx, cancel := context.WithTimeout(d.ctx, actionTimeout)
		defer cancel()
		start := time.Now()
		err := act.Run(ctx)
		log.ActionDone(name, act.String(), time.Since(start), err)
		if err != nil {
			d.sink.ActionFailed(name, err)
		}
	}()
}

// Run registers the source and pumps its events until ctx is done.
func (d *daemon) Run(ctx context.Context) error {
	if err := d.src.Register(); err != nil {
		return fmt.Errorf("registering key source: %w", err)
	}
	defer d.src.Unregister()

	pump := dispatch.NewPump(d.em, func(ev keyboard.Event, err error) {
		log.Warnf("dispatch %s %d: %v", ev.Type, ev.Code, err)
	})
	err := pump.Run(ctx, d.src.Events())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (d *daemon) TogglePause() bool {
	paused := d.kb.TogglePause()
	log.Info(fmt.Sprintf("paused=%v", paused))
	d.sink.PauseChanged(paused)
	return paused
}

// WaitActions blocks until every started action has returned. Callers must
// make sure no new combo can fire meanwhile.
func (d *daemon) WaitActions() {
	d.actions.Wait()
}

// Close detaches the tracker and waits for running actions.
func (d *daemon) Close() int64 {
	d.kb.Clear()
	d.actions.Wait()
	return d.fired.Load()
}

func describe(b config.Binding) string {
	combos, err := b.Combos()
	if err != nil {
		return "invalid: " + err.Error()
	}
	specs := make([]string, len(combos))
	for i, c := range combos {
		specs[i] = keycode.Format(c)
	}
	return fmt.Sprint(specs)
}

func comboList(cs []combo.Combo) string {
	specs := make([]string, len(cs))
	for i, c := range cs {
		specs[i] = keycode.Format(c)
	}
	return fmt.Sprint(specs)
}

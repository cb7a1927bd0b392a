package dispatch

import (
	"context"

	"keycombo/keyboard"
)

// Pump drains a channel of events into an Emitter from a single goroutine,
// so listeners never see two events at once even when several readers
// produce them concurrently.
type Pump struct {
	emitter *Emitter
	onError func(keyboard.Event, error)
}

// NewPump creates a pump. onError may be nil.
func NewPump(e *Emitter, onError func(keyboard.Event, error)) *Pump {
	return &Pump{emitter: e, onError: onError}
}

// Run delivers events until ctx is cancelled or events is closed. It
// returns ctx.Err() on cancellation and nil when the channel closes.
func (p *Pump) Run(ctx context.Context, events <-chan keyboard.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := p.emitter.Dispatch(ev); err != nil && p.onError != nil {
				p.onError(ev, err)
			}
		}
	}
}

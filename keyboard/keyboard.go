// Package keyboard tracks which keys are held and fires handlers when the
// held set equals a registered combo exactly.
//
// A Keyboard subscribes to keydown/keyup on a Surface. Every keydown adds the
// key to the held set and, unless paused, looks up the handlers registered
// for the whole held set. Holding extra keys breaks the match: with ctrl+a
// registered, pressing ctrl+shift+a fires nothing.
package keyboard

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"keycombo/combo"
	"keycombo/keycode"
)

var (
	ErrNilHandler   = errors.New("nil handler")
	ErrHandlerPanic = errors.New("handler panicked")
)

// Handler is called with the keydown event that completed its combo.
type Handler func(Event) error

// RepeatPolicy controls whether a keydown for an already-held key
// (OS auto-repeat) dispatches again.
type RepeatPolicy int

const (
	RepeatDispatch RepeatPolicy = iota
	RepeatIgnore
)

func (p RepeatPolicy) String() string {
	if p == RepeatIgnore {
		return "ignore"
	}
	return "dispatch"
}

// ParseRepeatPolicy accepts "dispatch" (or "") and "ignore".
func ParseRepeatPolicy(s string) (RepeatPolicy, error) {
	switch s {
	case "", "dispatch":
		return RepeatDispatch, nil
	case "ignore":
		return RepeatIgnore, nil
	}
	return RepeatDispatch, fmt.Errorf("unknown repeat policy %q (use dispatch or ignore)", s)
}

type Option func(*Keyboard)

// WithCanonical replaces the key folding function. The default folds
// left/right modifiers via keycode.Canonical.
func WithCanonical(fn func(combo.Key) combo.Key) Option {
	return func(k *Keyboard) { k.canonical = fn }
}

func WithRepeatPolicy(p RepeatPolicy) Option {
	return func(k *Keyboard) { k.repeat = p }
}

func WithLogger(l zerolog.Logger) Option {
	return func(k *Keyboard) { k.logger = l }
}

// Keyboard is the combo tracker.
type Keyboard struct {
	surface   Surface
	canonical func(combo.Key) combo.Key
	repeat    RepeatPolicy
	logger    zerolog.Logger

	mu       sync.Mutex
	handlers map[string][]Handler
	held     map[combo.Key]struct{}
	paused   bool
	attached bool
	downID   ListenerID
	upID     ListenerID
}

// New creates a tracker and starts listening on surface.
func New(surface Surface, opts ...Option) *Keyboard {
	k := &Keyboard{
		surface:   surface,
		canonical: keycode.Canonical,
		logger:    zerolog.Nop(),
		handlers:  make(map[string][]Handler),
		held:      make(map[combo.Key]struct{}),
	}
	for _, o := range opts {
		o(k)
	}
	k.StartListening()
	return k
}

// On registers h for every combo in keys. Registering the same combo more
// than once keeps all handlers; they fire in registration order.
func (k *Keyboard) On(keys combo.Input, h Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	combos, err := combo.ToCombos(keys)
	if err != nil {
		return err
	}
	if len(combos) == 0 {
		return fmt.Errorf("%w: no keys given", combo.ErrInvalidCombo)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	for _, c := range combos {
		id := combo.Hash(c.Map(k.canonical))
		k.handlers[id] = append(k.handlers[id], h)
		k.logger.Debug().Str("combo", id).Int("handlers", len(k.handlers[id])).Msg("combo_registered")
	}
	return nil
}

func (k *Keyboard) StartListening() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.attached {
		return
	}
	k.downID = k.surface.AddEventListener(KeyDown, k.handleKeyDown)
	k.upID = k.surface.AddEventListener(KeyUp, k.handleKeyUp)
	k.attached = true
}

func (k *Keyboard) StopListening() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.detach()
}

func (k *Keyboard) detach() {
	if !k.attached {
		return
	}
	k.surface.RemoveEventListener(KeyDown, k.downID)
	k.surface.RemoveEventListener(KeyUp, k.upID)
	k.attached = false
}

// Listening reports whether the tracker is attached to its surface.
func (k *Keyboard) Listening() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.attached
}

// Clear detaches from the surface and forgets all handlers and held keys.
func (k *Keyboard) Clear() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.detach()
	clear(k.handlers)
	clear(k.held)
}

// Pause suppresses dispatch. Held keys are still tracked, and unpausing
// does not fire for combos completed while paused.
func (k *Keyboard) Pause() {
	k.mu.Lock()
	k.paused = true
	k.mu.Unlock()
}

func (k *Keyboard) Unpause() {
	k.mu.Lock()
	k.paused = false
	k.mu.Unlock()
}

// TogglePause flips the paused flag and returns the new state.
func (k *Keyboard) TogglePause() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.paused = !k.paused
	return k.paused
}

func (k *Keyboard) Paused() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.paused
}

// Held returns the currently held keys in ascending order.
func (k *Keyboard) Held() combo.Combo {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.heldCombo()
}

// Registered returns the canonical keys of all registered combos, sorted.
func (k *Keyboard) Registered() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	ids := make([]string, 0, len(k.handlers))
	for id := range k.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (k *Keyboard) heldCombo() combo.Combo {
	c := make(combo.Combo, 0, len(k.held))
	for key := range k.held {
		c = append(c, key)
	}
	slices.Sort(c)
	return c
}

func (k *Keyboard) handleKeyDown(ev Event) error {
	k.mu.Lock()
	code := k.canonical(ev.Code)
	_, wasHeld := k.held[code]
	k.held[code] = struct{}{}
	if k.paused || (wasHeld && k.repeat == RepeatIgnore) {
		k.mu.Unlock()
		return nil
	}
	id := combo.Hash(k.heldCombo())
	// handlers may call On or Clear; iterate over a copy
	handlers := slices.Clone(k.handlers[id])
	k.mu.Unlock()

	if len(handlers) == 0 {
		return nil
	}
	k.logger.Debug().Str("combo", id).Int("handlers", len(handlers)).Msg("combo_matched")

	var errs []error
	for _, h := range handlers {
		if err := k.invoke(h, ev); err != nil {
			k.logger.Warn().Err(err).Str("combo", id).Msg("handler_failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (k *Keyboard) handleKeyUp(ev Event) error {
	k.mu.Lock()
	delete(k.held, k.canonical(ev.Code))
	k.mu.Unlock()
	return nil
}

func (k *Keyboard) invoke(h Handler, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return h(ev)
}

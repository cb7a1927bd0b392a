//go:build linux

package hotkey

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/holoplot/go-evdev"

	"keycombo/combo"
	"keycombo/keyboard"
)

const (
	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2
)

type evdevSource struct {
	events  chan keyboard.Event
	devices []*evdev.InputDevice
	stop    chan struct{}
	once    sync.Once
}

// New creates a source that reads every keyboard under /dev/input.
// Requires the user to be in the 'input' group. Every key is reported, so
// the combos argument is unused here.
func New(_ []combo.Combo) Source {
	return &evdevSource{
		events: make(chan keyboard.Event, 64),
		stop:   make(chan struct{}),
	}
}

func (s *evdevSource) Register() error {
	devices, err := openKeyboards()
	if err != nil {
		return err
	}
	s.devices = devices
	for _, d := range devices {
		go s.readEvents(d)
	}
	return nil
}

func (s *evdevSource) readEvents(d *evdev.InputDevice) {
	for {
		ev, err := d.ReadOne()
		if err != nil {
			return
		}
		out, ok := translate(ev)
		if !ok {
			continue
		}
		select {
		case s.events <- out:
		case <-s.stop:
			return
		}
	}
}

// translate maps a raw input event to a key event. Auto-repeat (value 2)
// is reported as another keydown.
func translate(ev *evdev.InputEvent) (keyboard.Event, bool) {
	if ev.Type != evdev.EV_KEY {
		return keyboard.Event{}, false
	}
	code := combo.Key(ev.Code)
	switch ev.Value {
	case keyPress, keyRepeat:
		return keyboard.Down(code), true
	case keyRelease:
		return keyboard.Up(code), true
	}
	return keyboard.Event{}, false
}

func (s *evdevSource) Unregister() {
	s.once.Do(func() {
		close(s.stop)
		for _, d := range s.devices {
			d.Close()
		}
	})
}

func (s *evdevSource) Events() <-chan keyboard.Event {
	return s.events
}

func isKeyboard(d *evdev.InputDevice) bool {
	codes := d.CapableEvents(evdev.EV_KEY)
	return slices.Contains(codes, evdev.KEY_A) && slices.Contains(codes, evdev.KEY_SPACE)
}

func openKeyboards() ([]*evdev.InputDevice, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("finding keyboards: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("no input devices found (is user in 'input' group?)")
	}

	var keyboards []*evdev.InputDevice
	for _, p := range paths {
		d, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		if !isKeyboard(d) {
			d.Close()
			continue
		}
		keyboards = append(keyboards, d)
	}
	if len(keyboards) == 0 {
		return nil, errors.New("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}
	return keyboards, nil
}

// Diagnose checks evdev access and returns a status message.
func Diagnose() (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}

	var names []string
	for _, p := range paths {
		d, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		if isKeyboard(d) {
			names = append(names, p.Name)
		}
		d.Close()
	}
	if len(names) == 0 {
		return "", fmt.Errorf("found %d input device(s) but no readable keyboard (run: sudo usermod -aG input $USER)", len(paths))
	}
	return fmt.Sprintf("%d keyboard(s) readable, first: %s", len(names), names[0]), nil
}

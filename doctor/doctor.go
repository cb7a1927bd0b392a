package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"keycombo/combo"
	"keycombo/config"
	"keycombo/dispatch"
	"keycombo/hotkey"
	"keycombo/keyboard"
	"keycombo/keycode"
	"keycombo/shutdown"
)

// Probe is the combo the detection check asks the user to press.
var Probe = combo.Of(keycode.Ctrl, keycode.Shift, keycode.Space)

const detectTimeout = 10 * time.Second

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(configPath string) int {
	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	fmt.Println("keycombo doctor - interactive system diagnostics")
	fmt.Println("================================================")

	allPass := true

	if !checkInput(os.Stdout) {
		allPass = false
	}
	if !checkConfig(os.Stdout, configPath) {
		allPass = false
	}
	if allPass {
		src := hotkey.New([]combo.Combo{Probe})
		if !checkDetection(ctx, os.Stdout, src, Probe, detectTimeout) {
			allPass = false
		}
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkInput(out io.Writer) bool {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "[1/3] Keyboard access")
	msg, err := hotkey.Diagnose()
	if err != nil {
		fmt.Fprintf(out, "  FAIL: %v\n", err)
		return false
	}
	fmt.Fprintf(out, "  PASS: %s\n", msg)
	return true
}

func checkConfig(out io.Writer, path string) bool {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "[2/3] Bindings file")
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(out, "  FAIL: %v\n", err)
		return false
	}
	fmt.Fprintf(out, "  PASS: %d binding(s) in %s\n", len(cfg.Bindings), path)
	return true
}

func checkDetection(ctx context.Context, out io.Writer, src hotkey.Source, probe combo.Combo, timeout time.Duration) bool {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "[3/3] Combo detection")
	fmt.Fprintf(out, "Press %s...\n", keycode.Format(probe))

	// keep the probe keystrokes from echoing into the shell
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		if oldState, err := term.MakeRaw(fd); err == nil {
			defer term.Restore(fd, oldState)
		}
	}

	if err := src.Register(); err != nil {
		fmt.Fprintf(out, "  FAIL: could not read keyboard: %v\r\n", err)
		return false
	}
	defer src.Unregister()

	em := dispatch.NewEmitter()
	kb := keyboard.New(em)
	defer kb.Clear()

	detected := make(chan struct{}, 1)
	kb.On(probe, func(keyboard.Event) error {
		select {
		case detected <- struct{}{}:
		default:
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	go dispatch.NewPump(em, nil).Run(ctx, src.Events())

	select {
	case <-detected:
		fmt.Fprint(out, "  PASS: combo detected\r\n")
		return true
	case <-ctx.Done():
		fmt.Fprint(out, "  FAIL: timeout waiting for combo\r\n")
		return false
	}
}

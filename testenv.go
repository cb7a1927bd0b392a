package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"keycombo/hotkey"
	"keycombo/keycode"
)

// driveScript feeds a headless daemon from a line-oriented script:
//
//	DOWN <key>      press one key
//	UP <key>        release one key
//	CHORD <combo>   press the keys in order, release in reverse
//	PAUSE           toggle pause
//	SLEEP <ms>
//	WAIT            block until every event so far is handled and its actions finished
//	QUIT
//
// Blank lines and lines starting with # are skipped. It returns at QUIT or EOF.
func driveScript(r io.Reader, fk *hotkey.Fake, d *daemon) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "", "#":
		case "DOWN", "UP":
			k, ok := keycode.Lookup(arg)
			if !ok {
				return fmt.Errorf("line %d: unknown key %q", line, arg)
			}
			if cmd == "DOWN" {
				fk.SimKeydown(k)
			} else {
				fk.SimKeyup(k)
			}
		case "CHORD":
			c, err := keycode.Parse(arg)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			fk.SimChord(c)
		case "PAUSE":
			d.TogglePause()
		case "SLEEP":
			ms, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("line %d: bad SLEEP %q", line, arg)
			}
			time.Sleep(time.Duration(ms) * time.Millisecond)
		case "WAIT":
			fk.Flush()
			d.WaitActions()
		case "QUIT":
			return nil
		default:
			if strings.HasPrefix(cmd, "#") {
				continue
			}
			return fmt.Errorf("line %d: unknown command %q", line, cmd)
		}
	}
	return scanner.Err()
}

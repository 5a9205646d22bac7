// Package term puts the controlling terminal into the non-canonical,
// non-echo mode the emulator's console I/O requires, and restores it on
// exit (§5, §6 of the specification this module implements).
package term

import (
	"fmt"
	"os"

	xterm "github.com/charmbracelet/x/term"
)

// State is the terminal state captured by MakeRaw, opaque to callers
// beyond passing it back to Restore.
type State struct {
	fd  int
	old *xterm.State
}

// MakeRaw switches stdin to raw mode and returns a State that Restore can
// later use to put it back. A failure to toggle the mode is a terminal
// mode error (§7).
func MakeRaw() (*State, error) {
	fd := int(os.Stdin.Fd())
	old, err := xterm.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("term: unable to enter raw mode: %w", err)
	}
	return &State{fd: fd, old: old}, nil
}

// Restore puts the terminal back into the mode captured by MakeRaw.
func Restore(s *State) error {
	if s == nil {
		return nil
	}
	if err := xterm.Restore(s.fd, s.old); err != nil {
		return fmt.Errorf("term: unable to restore terminal mode: %w", err)
	}
	return nil
}

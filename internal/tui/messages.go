package tui

import (
	"errors"

	"github.com/ensigniasec/countdown/internal/engine"
)

// Message types for Bubble Tea update loop.

// displayMsg carries an engine refresh.
type displayMsg struct{ View engine.View }

// policyMsg carries an on-zero policy selected outside the TUI, e.g. by a
// config file reload.
type policyMsg struct{ Policy engine.OnZeroPolicy }

// quitMsg indicates the program should quit.
type quitMsg struct{ Reason error }

// ErrQuit is a sentinel quit reason.
var ErrQuit = errors.New("quit")

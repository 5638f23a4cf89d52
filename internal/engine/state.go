package engine

import (
	"fmt"
	"strings"
)

// OnZeroPolicy selects what happens once a countdown reaches zero.
type OnZeroPolicy string

const (
	// PolicyStop leaves the timer paused at zero.
	PolicyStop OnZeroPolicy = "stop"
	// PolicyRestart starts a new full countdown.
	PolicyRestart OnZeroPolicy = "restart"
	// PolicyStopwatch counts up from zero.
	PolicyStopwatch OnZeroPolicy = "stopwatch"
)

// Policies lists the policies in display order.
func Policies() []OnZeroPolicy {
	return []OnZeroPolicy{PolicyStop, PolicyRestart, PolicyStopwatch}
}

// Valid reports whether p is a known policy.
func (p OnZeroPolicy) Valid() bool {
	switch p {
	case PolicyStop, PolicyRestart, PolicyStopwatch:
		return true
	default:
		return false
	}
}

// Next returns the policy after p in display order, wrapping around.
func (p OnZeroPolicy) Next() OnZeroPolicy {
	all := Policies()
	for i, q := range all {
		if q == p {
			return all[(i+1)%len(all)]
		}
	}
	return PolicyStop
}

// Prev returns the policy before p in display order, wrapping around.
func (p OnZeroPolicy) Prev() OnZeroPolicy {
	all := Policies()
	for i, q := range all {
		if q == p {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return PolicyStop
}

// ParsePolicy parses a policy name, ignoring case and surrounding space.
func ParsePolicy(s string) (OnZeroPolicy, error) {
	p := OnZeroPolicy(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q (want stop, restart or stopwatch)", ErrUnknownPolicy, s)
	}
	return p, nil
}

// Mode is the counting direction of the engine.
type Mode int

const (
	// ModeCountdown decrements toward zero and completes there.
	ModeCountdown Mode = iota
	// ModeCountUp increments from zero and never completes.
	ModeCountUp
)

// String returns the string representation of a Mode.
func (m Mode) String() string {
	switch m {
	case ModeCountdown:
		return "Countdown"
	case ModeCountUp:
		return "CountUp"
	default:
		return "Unknown"
	}
}

// State is a point-in-time copy of the timer state.
type State struct {
	TotalSeconds   int
	CurrentSeconds int
	Running        bool
	Completed      bool
	Mode           Mode
	Policy         OnZeroPolicy
}

// View is what a Display receives on every refresh.
type View struct {
	Text       string // formatted remaining (or elapsed) time
	Title      string // window title
	Running    bool
	Completed  bool
	CountingUp bool
	Current    int
	Total      int
	Policy     OnZeroPolicy
}

// View builds the display view for the state.
func (s State) View() View {
	text := FormatClock(s.CurrentSeconds)
	return View{
		Text:       text,
		Title:      Title(text, s.Running),
		Running:    s.Running,
		Completed:  s.Completed,
		CountingUp: s.Mode == ModeCountUp,
		Current:    s.CurrentSeconds,
		Total:      s.TotalSeconds,
		Policy:     s.Policy,
	}
}

package tui

import (
	"github.com/ensigniasec/countdown/internal/engine"
)

// editor is the duration/policy modal. Values are clamped to the ranges the
// engine accepts.
type editor struct {
	hours   int
	minutes int
	seconds int
	policy  engine.OnZeroPolicy
	focus   editorField
}

// newEditor prefills the modal from the configured duration.
func newEditor(totalSeconds int, policy engine.OnZeroPolicy) editor {
	h, m, s := engine.Split(totalSeconds)
	if h > engine.MaxHours {
		h = engine.MaxHours
	}
	return editor{hours: h, minutes: m, seconds: s, policy: policy, focus: fieldHours}
}

func (e *editor) next() { e.focus = (e.focus + 1) % fieldCount }

func (e *editor) prev() { e.focus = (e.focus + fieldCount - 1) % fieldCount }

func (e *editor) increase() { e.adjust(1) }

func (e *editor) decrease() { e.adjust(-1) }

func (e *editor) adjust(delta int) {
	switch e.focus {
	case fieldHours:
		e.hours = clampField(e.hours+delta, engine.MaxHours)
	case fieldMinutes:
		e.minutes = clampField(e.minutes+delta, engine.MaxMinutes)
	case fieldSeconds:
		e.seconds = clampField(e.seconds+delta, engine.MaxSeconds)
	case fieldPolicy:
		if delta > 0 {
			e.policy = e.policy.Next()
		} else {
			e.policy = e.policy.Prev()
		}
	case fieldCount:
	}
}

// totalSeconds returns the edited duration.
func (e editor) totalSeconds() int {
	return e.hours*3600 + e.minutes*60 + e.seconds
}

func clampField(v, hi int) int {
	switch {
	case v < 0:
		return 0
	case v > hi:
		return hi
	default:
		return v
	}
}

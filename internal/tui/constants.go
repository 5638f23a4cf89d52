package tui

// Package-level constants to avoid magic numbers and improve readability.
const (
	// displayBufferSize bounds queued engine refreshes. A full buffer
	// discards the oldest.
	displayBufferSize = 16

	progressMaxWidth = 60
	progressMinWidth = 10
)

// editorField identifies the focused control in the edit modal.
type editorField int

const (
	fieldHours editorField = iota
	fieldMinutes
	fieldSeconds
	fieldPolicy
	fieldCount
)

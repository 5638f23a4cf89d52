package engine

import "errors"

// Sentinel errors returned by the parsing helpers.
var (
	ErrUnknownPolicy = errors.New("unknown on-zero policy")
	ErrInvalidClock  = errors.New("invalid clock value")
)

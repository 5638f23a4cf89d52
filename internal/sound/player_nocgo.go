//go:build linux && !cgo

package sound

import (
	"fmt"
	"time"
)

// Player is a stub for Linux builds without cgo, where the ALSA backend is
// not available.
type Player struct{}

// NewPlayer always fails on this platform.
func NewPlayer(_ Options) (*Player, error) {
	return nil, fmt.Errorf("%w: built without cgo (Linux requires cgo for ALSA)", ErrAudioUnavailable)
}

func (*Player) PlayTick() error { return nil }

func (*Player) PlayCompletion(_ time.Duration) error { return nil }

func (*Player) StopCompletion() {}

func (*Player) Close() error { return nil }

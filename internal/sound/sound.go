// Package sound plays the timer's audio cues: a short click on every tick and
// an alarm while a completed countdown is buzzing. Cues are synthesized, so no
// asset files ship with the binary.
package sound

import (
	"errors"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/sirupsen/logrus"
)

// ErrAudioUnavailable is returned when no audio device can be opened.
var ErrAudioUnavailable = errors.New("audio not available")

// Options configures a Player.
type Options struct {
	Tick       bool    // play the per-second click
	Completion bool    // play the completion alarm
	Volume     float64 // 0..1
}

// DefaultOptions enables both cues at 80% volume.
func DefaultOptions() Options {
	return Options{Tick: true, Completion: true, Volume: 0.8}
}

func (o Options) volume() float64 {
	switch {
	case o.Volume < 0:
		return 0
	case o.Volume > 1:
		return 1
	default:
		return o.Volume
	}
}

// Silent satisfies the engine's audio interface without making a sound.
type Silent struct{}

func (Silent) PlayTick() error { return nil }

func (Silent) PlayCompletion(_ time.Duration) error { return nil }

func (Silent) StopCompletion() {}

// Bell rings the system beeper on completion. It is the fallback when no
// audio device is available; ticks stay silent.
type Bell struct {
	Enabled bool
}

func (b Bell) PlayTick() error { return nil }

// PlayCompletion beeps once in the background. Failures are logged and dropped.
func (b Bell) PlayCompletion(_ time.Duration) error {
	if !b.Enabled {
		return nil
	}
	go func() {
		if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			logrus.Debugf("bell failed: %v", err)
		}
	}()
	return nil
}

func (b Bell) StopCompletion() {}

//go:build !linux || cgo

package sound

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"github.com/sirupsen/logrus"
)

const reapInterval = 20 * time.Millisecond

//nolint:gochecknoglobals // oto allows a single context per process.
var (
	contextOnce sync.Once
	otoContext  *oto.Context
	contextErr  error
)

// sharedContext opens the process-wide audio context and waits until the
// device is ready.
func sharedContext() (*oto.Context, error) {
	contextOnce.Do(func() {
		ctx, ready, err := oto.NewContext(sampleRate, channelCount, bytesPerSample)
		if err != nil {
			contextErr = fmt.Errorf("%w: %w", ErrAudioUnavailable, err)
			return
		}
		<-ready
		otoContext = ctx
	})
	return otoContext, contextErr
}

// Player plays synthesized cues on the system audio device.
type Player struct {
	mu     sync.Mutex
	ctx    *oto.Context
	opts   Options
	tick   []byte
	alarm  oto.Player
	closed bool
}

// NewPlayer opens the audio device. It returns ErrAudioUnavailable when the
// device cannot be opened.
func NewPlayer(opts Options) (*Player, error) {
	ctx, err := sharedContext()
	if err != nil {
		return nil, err
	}
	return &Player{ctx: ctx, opts: opts, tick: tickPCM()}, nil
}

// PlayTick starts the click and returns immediately.
func (p *Player) PlayTick() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !p.opts.Tick {
		return nil
	}
	pl := p.start(p.tick)
	go reap(pl)
	return pl.Err()
}

// PlayCompletion starts an alarm lasting d. Any alarm already sounding is
// replaced.
func (p *Player) PlayCompletion(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !p.opts.Completion {
		return nil
	}
	p.stopAlarmLocked()
	p.alarm = p.start(alarmPCM(d))
	return p.alarm.Err()
}

// StopCompletion silences the alarm.
func (p *Player) StopCompletion() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopAlarmLocked()
}

// Close silences playback. Later calls are no-ops.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopAlarmLocked()
	p.closed = true
	return nil
}

func (p *Player) start(pcm []byte) oto.Player {
	pl := p.ctx.NewPlayer(bytes.NewReader(pcm))
	pl.SetVolume(p.opts.volume())
	pl.Play()
	return pl
}

func (p *Player) stopAlarmLocked() {
	if p.alarm == nil {
		return
	}
	p.alarm.Pause()
	if err := p.alarm.Close(); err != nil {
		logrus.Debugf("closing alarm player: %v", err)
	}
	p.alarm = nil
}

// reap closes a one-shot player once it has drained.
func reap(pl oto.Player) {
	for pl.IsPlaying() {
		time.Sleep(reapInterval)
	}
	if err := pl.Close(); err != nil {
		logrus.Debugf("closing tick player: %v", err)
	}
}

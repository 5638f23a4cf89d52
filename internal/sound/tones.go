package sound

import (
	"encoding/binary"
	"math"
	"time"
)

const (
	sampleRate     = 44100
	channelCount   = 1
	bytesPerSample = 2

	tickLength    = 30 * time.Millisecond
	tickFrequency = 1000.0
	tickDecay     = 120.0 // envelope falloff per second

	alarmHigh    = 880.0
	alarmLow     = 660.0
	alarmSegment = 250 * time.Millisecond
	alarmGap     = 50 * time.Millisecond
	alarmLevel   = 0.6
)

// samplesFor returns the number of frames covering d.
func samplesFor(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Seconds() * sampleRate)
}

// putSample writes v (-1..1) as little-endian signed 16-bit PCM.
func putSample(buf []byte, i int, v float64) {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	binary.LittleEndian.PutUint16(buf[i*bytesPerSample:], uint16(int16(v*math.MaxInt16)))
}

// tickPCM synthesizes the per-second click: a short sine burst with an
// exponential decay.
func tickPCM() []byte {
	n := samplesFor(tickLength)
	buf := make([]byte, n*bytesPerSample)
	for i := range n {
		t := float64(i) / sampleRate
		env := math.Exp(-tickDecay * t)
		putSample(buf, i, env*math.Sin(2*math.Pi*tickFrequency*t))
	}
	return buf
}

// alarmPCM synthesizes d of alternating two-tone alarm, each tone followed by
// a short silence. Segment edges are ramped to avoid clicks.
func alarmPCM(d time.Duration) []byte {
	n := samplesFor(d)
	buf := make([]byte, n*bytesPerSample)
	seg := samplesFor(alarmSegment)
	gap := samplesFor(alarmGap)
	period := seg + gap
	ramp := seg / 10

	for i := range n {
		pos := i % period
		if pos >= seg {
			continue // silence
		}
		freq := alarmHigh
		if (i/period)%2 == 1 {
			freq = alarmLow
		}
		env := 1.0
		if pos < ramp {
			env = float64(pos) / float64(ramp)
		} else if pos > seg-ramp {
			env = float64(seg-pos) / float64(ramp)
		}
		t := float64(i) / sampleRate
		putSample(buf, i, alarmLevel*env*math.Sin(2*math.Pi*freq*t))
	}
	return buf
}

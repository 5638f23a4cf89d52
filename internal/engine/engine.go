// Package engine implements the countdown timer state machine. An Engine
// owns the remaining-time counter and its single repeating tick driver, and
// applies the on-zero policy once a countdown completes. Presentation, audio
// and notifications are injected collaborators.
package engine

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/countdown/internal/clock"
)

const (
	// DefaultSeconds is the startup duration and the fallback for a zero configuration.
	DefaultSeconds = 60
	// DefaultTickPeriod is the tick driver cadence.
	DefaultTickPeriod = time.Second
	// DefaultBuzzerDuration is how long the completion sound plays.
	DefaultBuzzerDuration = 3 * time.Second
	// DefaultPolicyDelay is the pause between completion and applying the on-zero policy.
	DefaultPolicyDelay = time.Second

	// MaxHours, MaxMinutes and MaxSeconds bound the configurable fields.
	MaxHours   = 23
	MaxMinutes = 59
	MaxSeconds = 59

	// maxCountUp caps the stopwatch at 99:59:59.
	maxCountUp = 99*secondsPerHour + 59*secondsPerMinute + 59

	completionTitle = "Timer Complete!"
	completionBody  = "Your timer has finished."
)

// Engine is the countdown timer. All methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	sched    clock.Scheduler
	display  Display
	audio    Audio
	notifier Notifier
	log      *logrus.Entry

	tickPeriod     time.Duration
	buzzerDuration time.Duration
	policyDelay    time.Duration

	total     int
	current   int
	running   bool
	completed bool
	mode      Mode
	policy    OnZeroPolicy

	// driver cancels the active tick driver; nil when paused.
	driver clock.Cancel
	// driverGen identifies the active driver so late ticks from a cancelled
	// wall-clock driver are dropped.
	driverGen uint64

	pendingPolicy clock.Cancel
	policyGen     uint64
	buzzerStop    clock.Cancel
	buzzerGen     uint64

	onComplete []func(State)
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets the scheduler driving ticks and delayed callbacks.
func WithScheduler(s clock.Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sched = s
		}
	}
}

// WithDisplay sets the display sink.
func WithDisplay(d Display) Option {
	return func(e *Engine) {
		if d != nil {
			e.display = d
		}
	}
}

// WithAudio sets the audio player.
func WithAudio(a Audio) Option {
	return func(e *Engine) {
		if a != nil {
			e.audio = a
		}
	}
}

// WithNotifier sets the notification sink.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *logrus.Entry) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPolicy sets the initial on-zero policy. Unknown policies are ignored.
func WithPolicy(p OnZeroPolicy) Option {
	return func(e *Engine) {
		if p.Valid() {
			e.policy = p
		}
	}
}

// WithDuration sets the initial duration, clamped like Configure.
func WithDuration(hours, minutes, seconds int) Option {
	return func(e *Engine) {
		e.total, e.current = configuredSeconds(hours, minutes, seconds)
	}
}

// WithBuzzerDuration sets how long the completion sound plays.
func WithBuzzerDuration(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.buzzerDuration = d
		}
	}
}

// WithPolicyDelay sets the delay between completion and the on-zero policy.
func WithPolicyDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.policyDelay = d
		}
	}
}

// New creates a paused Engine with a 60 second duration.
func New(opts ...Option) *Engine {
	e := &Engine{
		sched:          clock.System,
		display:        nopDisplay{},
		audio:          nopAudio{},
		notifier:       nopNotifier{},
		log:            logrus.WithField("component", "engine"),
		tickPeriod:     DefaultTickPeriod,
		buzzerDuration: DefaultBuzzerDuration,
		policyDelay:    DefaultPolicyDelay,
		total:          DefaultSeconds,
		current:        DefaultSeconds,
		mode:           ModeCountdown,
		policy:         PolicyStop,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.mu.Lock()
	e.renderLocked()
	e.mu.Unlock()
	return e
}

// OnComplete registers fn to be called after every completion. Hooks run
// outside the engine lock, on the goroutine that delivered the final tick.
func (e *Engine) OnComplete(fn func(State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onComplete = append(e.onComplete, fn)
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Policy returns the on-zero policy.
func (e *Engine) Policy() OnZeroPolicy {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.policy
}

// SetPolicy changes the on-zero policy. It takes effect at the next completion.
func (e *Engine) SetPolicy(p OnZeroPolicy) {
	if !p.Valid() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.policy == p {
		return
	}
	e.policy = p
	e.log.Debugf("on-zero policy set to %s", p)
	e.renderLocked()
}

// Configure sets the duration from clamped hours (0-23), minutes and seconds
// (0-59). A zero duration leaves 60 seconds on the clock. The running state
// is left as is.
func (e *Engine) Configure(hours, minutes, seconds int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelPolicyLocked()
	e.total, e.current = configuredSeconds(hours, minutes, seconds)
	e.mode = ModeCountdown
	e.completed = false
	e.log.Debugf("configured %s (total=%d)", FormatClock(e.current), e.total)
	e.renderLocked()
}

// Start begins counting down. A timer at zero is refilled to the full
// duration first. Starting a running timer replaces its driver.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startLocked()
}

// Pause stops the tick driver. It is a no-op when already paused.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.pauseLocked()
	e.renderLocked()
}

// Toggle pauses a running timer and starts a paused one.
func (e *Engine) Toggle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		e.pauseLocked()
		e.renderLocked()
		return
	}
	e.startLocked()
}

// Reset pauses and restores the full duration.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

// Close stops the driver, drops pending callbacks and silences the buzzer.
func (e *Engine) Close() {
	e.mu.Lock()
	e.stopDriverLocked()
	e.running = false
	e.cancelPolicyLocked()
	buzzing := e.buzzerStop != nil
	if buzzing {
		e.buzzerStop()
		e.buzzerStop = nil
		e.buzzerGen++
	}
	e.mu.Unlock()

	if buzzing {
		e.audio.StopCompletion()
	}
}

func (e *Engine) startLocked() {
	e.cancelPolicyLocked()
	if e.current <= 0 {
		e.current = e.total
		if e.current <= 0 {
			e.current = DefaultSeconds
		}
	}
	e.mode = ModeCountdown
	e.completed = false
	e.runLocked()
	e.log.Debugf("started at %s", FormatClock(e.current))
	e.renderLocked()
}

// runLocked installs a fresh tick driver, replacing any existing one.
func (e *Engine) runLocked() {
	e.stopDriverLocked()
	e.running = true
	e.driverGen++
	gen := e.driverGen
	e.driver = e.sched.Repeat(e.tickPeriod, func() { e.tick(gen) })
}

func (e *Engine) pauseLocked() {
	e.stopDriverLocked()
	e.running = false
	e.log.Debugf("paused at %s", FormatClock(e.current))
}

func (e *Engine) stopDriverLocked() {
	if e.driver != nil {
		e.driver()
		e.driver = nil
	}
	e.driverGen++
}

func (e *Engine) resetLocked() {
	if e.running {
		e.pauseLocked()
	}
	e.cancelPolicyLocked()
	e.current = e.total
	e.mode = ModeCountdown
	e.completed = false
	e.log.Debug("reset")
	e.renderLocked()
}

func (e *Engine) cancelPolicyLocked() {
	if e.pendingPolicy != nil {
		e.pendingPolicy()
		e.pendingPolicy = nil
		e.log.Debug("pending on-zero policy cancelled")
	}
	e.policyGen++
}

// tick is the driver callback.
func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if !e.running || gen != e.driverGen {
		e.mu.Unlock()
		return
	}

	if err := e.audio.PlayTick(); err != nil {
		e.log.Debugf("tick sound failed: %v", err)
	}

	if e.mode == ModeCountUp {
		if e.current < maxCountUp {
			e.current++
		}
		e.renderLocked()
		e.mu.Unlock()
		return
	}

	if e.current > 0 {
		e.current--
	}
	e.renderLocked()

	if e.current > 0 {
		e.mu.Unlock()
		return
	}

	snapshot, hooks := e.completeLocked()
	e.mu.Unlock()

	for _, fn := range hooks {
		fn(snapshot)
	}
}

// completeLocked handles a countdown reaching zero. It returns the hooks to
// run once the lock is released.
func (e *Engine) completeLocked() (State, []func(State)) {
	e.pauseLocked()
	e.completed = true
	e.renderLocked()
	e.log.Infof("countdown of %s complete", FormatClock(e.total))

	if err := e.audio.PlayCompletion(e.buzzerDuration); err != nil {
		e.log.Debugf("completion sound failed: %v", err)
	}
	if e.buzzerStop != nil {
		e.buzzerStop()
	}
	e.buzzerGen++
	buzzerGen := e.buzzerGen
	e.buzzerStop = e.sched.After(e.buzzerDuration, func() { e.stopBuzzer(buzzerGen) })

	e.notifier.Notify(completionTitle, completionBody)

	e.cancelPolicyLocked()
	policy := e.policy
	policyGen := e.policyGen
	e.pendingPolicy = e.sched.After(e.policyDelay, func() { e.applyPolicy(policyGen, policy) })

	hooks := make([]func(State), len(e.onComplete))
	copy(hooks, e.onComplete)
	return e.stateLocked(), hooks
}

func (e *Engine) stopBuzzer(gen uint64) {
	e.mu.Lock()
	if gen != e.buzzerGen {
		e.mu.Unlock()
		return
	}
	e.buzzerStop = nil
	e.mu.Unlock()

	e.audio.StopCompletion()
}

// applyPolicy runs the on-zero policy captured at completion.
func (e *Engine) applyPolicy(gen uint64, policy OnZeroPolicy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.policyGen {
		return
	}
	e.pendingPolicy = nil
	e.log.Debugf("applying on-zero policy %s", policy)

	switch policy {
	case PolicyRestart:
		e.resetLocked()
		e.startLocked()
	case PolicyStopwatch:
		e.current = 0
		e.mode = ModeCountUp
		e.runLocked()
		e.renderLocked()
	case PolicyStop:
	}
}

func (e *Engine) stateLocked() State {
	return State{
		TotalSeconds:   e.total,
		CurrentSeconds: e.current,
		Running:        e.running,
		Completed:      e.completed,
		Mode:           e.mode,
		Policy:         e.policy,
	}
}

func (e *Engine) renderLocked() {
	e.display.Render(e.stateLocked().View())
}

// configuredSeconds clamps the fields and returns the total and the initial
// remaining time.
func configuredSeconds(hours, minutes, seconds int) (total, current int) {
	hours, minutes, seconds = Clamp(hours, minutes, seconds)
	total = hours*secondsPerHour + minutes*secondsPerMinute + seconds
	current = total
	if current == 0 {
		current = DefaultSeconds
	}
	return total, current
}

// Clamp bounds hours to 0-23 and minutes and seconds to 0-59.
func Clamp(hours, minutes, seconds int) (int, int, int) {
	return clamp(hours, 0, MaxHours), clamp(minutes, 0, MaxMinutes), clamp(seconds, 0, MaxSeconds)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

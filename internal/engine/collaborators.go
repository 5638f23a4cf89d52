package engine

import "time"

// Display renders timer updates. Render is called with the engine lock held
// and must not block or call back into the engine.
type Display interface {
	Render(v View)
}

// Audio plays the timer cues. Implementations must return promptly; playback
// itself happens in the background.
type Audio interface {
	PlayTick() error
	PlayCompletion(d time.Duration) error
	StopCompletion()
}

// Notifier raises a best-effort system notification.
type Notifier interface {
	Notify(title, body string)
}

// DisplayFunc adapts a function to the Display interface.
type DisplayFunc func(View)

// Render calls f(v).
func (f DisplayFunc) Render(v View) { f(v) }

type nopDisplay struct{}

func (nopDisplay) Render(View) {}

type nopAudio struct{}

func (nopAudio) PlayTick() error                      { return nil }
func (nopAudio) PlayCompletion(_ time.Duration) error { return nil }
func (nopAudio) StopCompletion()                      {}

type nopNotifier struct{}

func (nopNotifier) Notify(_, _ string) {}

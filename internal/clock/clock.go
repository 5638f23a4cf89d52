// Package clock provides the scheduling primitives the timer engine runs on.
// System is backed by the wall clock; Manual is advanced explicitly so that
// timer behavior can be exercised without real waits.
package clock

import (
	"sync"
	"time"
)

// Cancel stops a scheduled callback. Calling it more than once is safe.
type Cancel func()

// Scheduler schedules repeating and one-shot callbacks.
type Scheduler interface {
	// Repeat calls fn every period until cancelled.
	Repeat(period time.Duration, fn func()) Cancel
	// After calls fn once after delay unless cancelled first.
	After(delay time.Duration, fn func()) Cancel
}

// System is the wall-clock Scheduler.
//
//nolint:gochecknoglobals // stateless default implementation.
var System Scheduler = systemScheduler{}

type systemScheduler struct{}

func (systemScheduler) Repeat(period time.Duration, fn func()) Cancel {
	ticker := time.NewTicker(period)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func (systemScheduler) After(delay time.Duration, fn func()) Cancel {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}

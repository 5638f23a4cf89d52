package clock

import (
	"sort"
	"sync"
	"time"
)

// entry is a scheduled callback on a Manual scheduler.
type entry struct {
	id     uint64
	due    time.Duration
	period time.Duration // zero for one-shot entries
	fn     func()
}

// Manual is a Scheduler whose time only moves when Advance is called.
// Callbacks run synchronously on the goroutine calling Advance.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  uint64
	entries map[uint64]*entry
}

// NewManual returns a Manual scheduler positioned at time zero.
func NewManual() *Manual {
	return &Manual{entries: make(map[uint64]*entry)}
}

// Repeat implements Scheduler.
func (m *Manual) Repeat(period time.Duration, fn func()) Cancel {
	if period <= 0 {
		period = time.Nanosecond
	}
	return m.add(period, period, fn)
}

// After implements Scheduler.
func (m *Manual) After(delay time.Duration, fn func()) Cancel {
	if delay < 0 {
		delay = 0
	}
	return m.add(delay, 0, fn)
}

func (m *Manual) add(delay, period time.Duration, fn func()) Cancel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.entries[id] = &entry{id: id, due: m.now + delay, period: period, fn: fn}
	return func() {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
	}
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of active entries.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// PendingRepeating returns the number of active repeating entries.
func (m *Manual) PendingRepeating() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.period > 0 {
			n++
		}
	}
	return n
}

// Advance moves virtual time forward by d, firing every callback that falls
// due in order. Callbacks may schedule or cancel other callbacks; anything
// they schedule inside the window fires during the same Advance.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDueLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		if next.period > 0 {
			next.due += next.period
		} else {
			delete(m.entries, next.id)
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

// nextDueLocked returns the earliest entry due at or before target. Ties are
// broken by scheduling order.
func (m *Manual) nextDueLocked(target time.Duration) *entry {
	due := make([]*entry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.due <= target {
			due = append(due, e)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].id < due[j].id
	})
	return due[0]
}

package engine

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	secondsPerHour   = 3600
	secondsPerMinute = 60
	idleTitle        = "Timer"
)

// Split breaks a second count into hours, minutes and seconds.
func Split(total int) (hours, minutes, seconds int) {
	if total < 0 {
		total = 0
	}
	return total / secondsPerHour, (total % secondsPerHour) / secondsPerMinute, total % secondsPerMinute
}

// FormatClock renders seconds as HH:MM:SS when at least an hour remains and
// MM:SS otherwise, every field zero-padded to two digits.
func FormatClock(total int) string {
	h, m, s := Split(total)
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// ParseClock is the inverse of FormatClock. It accepts MM:SS or HH:MM:SS;
// minutes and seconds must be below 60.
func ParseClock(text string) (int, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, text)
	}

	fields := make([]int, len(parts))
	for i, p := range parts {
		if p == "" || strings.ContainsAny(p, "+-") {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, text)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, text)
		}
		fields[i] = n
	}

	var h, m, s int
	if len(fields) == 3 {
		h, m, s = fields[0], fields[1], fields[2]
	} else {
		m, s = fields[0], fields[1]
	}
	if m >= secondsPerMinute || s >= secondsPerMinute {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, text)
	}
	return h*secondsPerHour + m*secondsPerMinute + s, nil
}

// Title returns the window title for the given display text.
func Title(text string, running bool) string {
	if running {
		return fmt.Sprintf("⏰ %s - Timer", text)
	}
	return idleTitle
}

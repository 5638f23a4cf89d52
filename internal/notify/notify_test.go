package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type posted struct {
	title, body, icon string
}

func TestDesktopNotify(t *testing.T) {
	t.Parallel()

	got := make(chan posted, 1)
	d := &Desktop{
		icon: "clock.png",
		post: func(title, message, icon string) error {
			got <- posted{title, message, icon}
			return nil
		},
	}

	d.Notify("Countdown", "Time's up!")

	select {
	case p := <-got:
		assert.Equal(t, posted{"Countdown", "Time's up!", "clock.png"}, p)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not posted")
	}
}

func TestDesktopNotifyFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	d := &Desktop{post: func(_, _, _ string) error {
		defer close(done)
		return errors.New("no dbus")
	}}

	require.NotPanics(t, func() { d.Notify("a", "b") })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poster not called")
	}
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() { Disabled{}.Notify("a", "b") })
}

// Package notify posts desktop notifications.
package notify

import (
	"github.com/gen2brain/beeep"
	"github.com/sirupsen/logrus"
)

// poster sends one notification. Tests swap it out.
type poster func(title, message, icon string) error

// Desktop posts notifications through the platform notification service.
type Desktop struct {
	post poster
	icon string
}

// NewDesktop returns a Desktop notifier. icon may be empty.
func NewDesktop(icon string) *Desktop {
	return &Desktop{post: post, icon: icon}
}

func post(title, message, icon string) error {
	return beeep.Notify(title, message, icon)
}

// Notify posts in the background. Failures are logged at debug level and
// otherwise ignored.
func (d *Desktop) Notify(title, body string) {
	send := d.post
	if send == nil {
		send = post
	}
	go func() {
		if err := send(title, body, d.icon); err != nil {
			logrus.WithField("component", "notify").Debugf("desktop notification failed: %v", err)
		}
	}()
}

// Disabled drops every notification.
type Disabled struct{}

func (Disabled) Notify(_, _ string) {}

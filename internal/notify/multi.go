// Package notify delivers prayer notices to the desktop and to MQTT.
package notify

import "github.com/fikrisyahid/adzanid/internal/prayer"

// Multi fans a notice out to several sinks.
type Multi []prayer.NotificationSink

// Notify calls every non-nil sink in order.
func (m Multi) Notify(title, body string) {
	for _, s := range m {
		if s != nil {
			s.Notify(title, body)
		}
	}
}

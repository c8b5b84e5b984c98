package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fikrisyahid/adzanid/internal/prayer"
)

// DefaultTestDelay is how long a test notification waits before the
// synthetic trigger fires.
const DefaultTestDelay = 10 * time.Second

// TestNotification sends an immediate notice and schedules a test trigger
// through the normal dispatch path.
func TestNotification(notifier prayer.NotificationSink, sched Scheduler, delay time.Duration) http.HandlerFunc {
	if delay <= 0 {
		delay = DefaultTestDelay
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if notifier != nil {
			notifier.Notify("Test Notifikasi", fmt.Sprintf("Adzan akan berbunyi dalam %d detik", int(delay.Seconds())))
		}
		sched.TriggerTest(delay)
		writeJSON(w, http.StatusAccepted, map[string]any{
			"status":   "scheduled",
			"delay_ms": delay.Milliseconds(),
		})
	}
}

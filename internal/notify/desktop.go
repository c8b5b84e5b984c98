package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AppName is shown as the notification source.
const AppName = "Adzanid"

const sendTimeout = 5 * time.Second

// Desktop shows native desktop notifications. Delivery failures are
// logged and never returned.
type Desktop struct {
	enabled atomic.Bool
	send    func(ctx context.Context, title, body string) error
	log     zerolog.Logger
	pending sync.WaitGroup
}

// NewDesktop creates a desktop sink using the platform notifier.
func NewDesktop(enabled bool) *Desktop {
	d := &Desktop{
		send: sendNative,
		log:  log.Logger.With().Str("component", "desktop-notify").Logger(),
	}
	d.enabled.Store(enabled)
	return d
}

// SetEnabled turns delivery on or off.
func (d *Desktop) SetEnabled(enabled bool) {
	d.enabled.Store(enabled)
}

// Enabled reports whether delivery is on.
func (d *Desktop) Enabled() bool {
	return d.enabled.Load()
}

// Notify implements prayer.NotificationSink. Delivery runs on its own
// goroutine and Notify returns immediately.
func (d *Desktop) Notify(title, body string) {
	if !d.enabled.Load() {
		return
	}
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error().Interface("panic", r).Msg("Desktop notifier panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := d.send(ctx, title, body); err != nil {
			d.log.Warn().Err(err).Str("title", title).Msg("Desktop notification failed")
		}
	}()
}

// Wait blocks until every notification handed to Notify has been sent or
// has failed.
func (d *Desktop) Wait() {
	d.pending.Wait()
}

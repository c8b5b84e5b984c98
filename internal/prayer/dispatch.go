package prayer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDndTimeout bounds a single DND query.
const DefaultDndTimeout = 3 * time.Second

// ErrDndTimeout is reported when the DND query exceeds its bound.
var ErrDndTimeout = errors.New("dnd query timed out")

// Notification text.
const (
	NotificationTitle = "Waktu Sholat Tiba"
	notificationBody  = "Saatnya sholat %s"
)

// NotificationBody returns the notice body for a prayer.
func NotificationBody(name Name) string {
	return fmt.Sprintf(notificationBody, name)
}

// QueryDnd asks gate with a time bound. Any error or timeout reads as
// inactive; the error is returned for reporting only.
func QueryDnd(ctx context.Context, gate DndGate, timeout time.Duration) (bool, error) {
	if gate == nil {
		return false, nil
	}
	if timeout <= 0 {
		timeout = DefaultDndTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		active bool
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("dnd query panicked: %v", r)}
			}
		}()
		active, err := gate.IsActive(ctx)
		ch <- result{active: active, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return false, r.err
		}
		return r.active, nil
	case <-ctx.Done():
		return false, ErrDndTimeout
	}
}

// Dispatcher performs the effects of a trigger.
type Dispatcher struct {
	notifier   NotificationSink
	audio      AudioSink
	dnd        DndGate
	resolver   ResourceResolver
	dndTimeout time.Duration
	log        zerolog.Logger
}

// Dispatch always notifies, then plays audio only if DND is inactive and
// the audio resource resolves. Panics in sinks are recovered.
func (d *Dispatcher) Dispatch(ctx context.Context, ev TriggerEvent, audioPath string) DispatchResult {
	var res DispatchResult

	title := NotificationTitle
	body := NotificationBody(ev.Prayer)
	res.Notified = d.notify(title, body)

	active, err := QueryDnd(ctx, d.dnd, d.dndTimeout)
	if err != nil {
		res.DndError = err.Error()
		d.log.Warn().Err(err).Msg("DND query failed, treating as inactive")
	}
	res.DndActive = active
	if active {
		res.AudioSkipped = SkipDnd
		d.log.Info().Str("prayer", string(ev.Prayer)).Msg("DND active, skipping adhan")
		return res
	}

	if d.audio == nil {
		res.AudioSkipped = SkipNoAudio
		return res
	}

	path := audioPath
	if d.resolver != nil {
		resolved, ok := d.resolver.Resolve(audioPath)
		if !ok {
			res.AudioSkipped = SkipNoResource
			d.log.Warn().Str("path", audioPath).Msg("Adhan file not found")
			return res
		}
		path = resolved
	}

	if d.play(path) {
		res.AudioStarted = true
	} else {
		res.AudioSkipped = SkipPlayFailed
		d.log.Warn().Str("path", path).Msg("Adhan playback did not start")
	}
	return res
}

func (d *Dispatcher) notify(title, body string) (ok bool) {
	if d.notifier == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Msg("Notification sink panicked")
			ok = false
		}
	}()
	d.notifier.Notify(title, body)
	return true
}

func (d *Dispatcher) play(path string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Msg("Audio sink panicked")
			ok = false
		}
	}()
	return d.audio.Play(path)
}

package prayer

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoSchedule is returned when no schedule is cached for the requested day.
var ErrNoSchedule = errors.New("no schedule cached")

// ScheduleProvider fetches the schedule for a location on a date.
type ScheduleProvider interface {
	Fetch(ctx context.Context, locationKey string, date Date) (*Schedule, error)
}

type forcedKey struct{}

// WithForcedFetch marks ctx as a forced refetch. Caching providers must go
// to their upstream and overwrite what they hold.
func WithForcedFetch(ctx context.Context) context.Context {
	return context.WithValue(ctx, forcedKey{}, true)
}

// IsForcedFetch reports whether ctx was marked by WithForcedFetch.
func IsForcedFetch(ctx context.Context) bool {
	forced, _ := ctx.Value(forcedKey{}).(bool)
	return forced
}

// ProviderFunc adapts a function to ScheduleProvider.
type ProviderFunc func(ctx context.Context, locationKey string, date Date) (*Schedule, error)

// Fetch calls f.
func (f ProviderFunc) Fetch(ctx context.Context, locationKey string, date Date) (*Schedule, error) {
	return f(ctx, locationKey, date)
}

// DndGate reports whether the user's do-not-disturb mode is on.
type DndGate interface {
	IsActive(ctx context.Context) (bool, error)
}

// NotificationSink delivers a user-visible notice.
type NotificationSink interface {
	Notify(title, body string)
}

// AudioSink plays the adhan. Play returns false when nothing was started.
type AudioSink interface {
	Play(resourcePath string) bool
	Stop()
}

// ResourceResolver turns a configured audio path into a playable one.
type ResourceResolver interface {
	Resolve(path string) (string, bool)
}

// FetchError wraps a provider failure with the request that caused it.
type FetchError struct {
	Request RefreshRequest
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching schedule for %s on %s (generation %d): %v",
		e.Request.LocationKey, e.Request.Date, e.Request.Generation, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// TriggerEvent is emitted once per matched prayer minute.
type TriggerEvent struct {
	ID          string    `json:"id"`
	Prayer      Name      `json:"prayer"`
	Date        Date      `json:"date"`
	Minute      TimeOfDay `json:"minute"`
	LocationKey string    `json:"location"`
	FiredAt     time.Time `json:"fired_at"`
}

// DispatchResult records which effects a trigger produced.
type DispatchResult struct {
	Notified     bool   `json:"notified"`
	DndActive    bool   `json:"dnd_active"`
	DndError     string `json:"dnd_error,omitempty"`
	AudioStarted bool   `json:"audio_started"`
	AudioSkipped string `json:"audio_skipped,omitempty"`
}

// Reasons audio was not started.
const (
	SkipDnd        = "dnd_active"
	SkipNoResource = "resource_unresolved"
	SkipNoAudio    = "no_audio_sink"
	SkipPlayFailed = "play_failed"
)

// Listener observes the scheduler. Methods are called from the scheduler
// loop and from fetch goroutines, so implementations must be safe for
// concurrent use and must not block.
type Listener interface {
	OnTrigger(ev TriggerEvent, res DispatchResult)
	OnScheduleRefreshed(snap Snapshot)
	OnFetchError(err *FetchError)
	OnStaleResponse(req RefreshRequest)
}

// BaseListener implements Listener with no-ops, for embedding.
type BaseListener struct{}

func (BaseListener) OnTrigger(TriggerEvent, DispatchResult) {}
func (BaseListener) OnScheduleRefreshed(Snapshot)           {}
func (BaseListener) OnFetchError(*FetchError)               {}
func (BaseListener) OnStaleResponse(RefreshRequest)         {}

package websocket

import (
	"github.com/rs/zerolog/log"

	"github.com/fikrisyahid/adzanid/internal/prayer"
)

// EventBroadcaster turns scheduler and player events into hub messages.
// It is a prayer.Listener and a prayer.NotificationSink.
type EventBroadcaster struct {
	prayer.BaseListener
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// OnTrigger sends a prayer.triggered event.
func (b *EventBroadcaster) OnTrigger(ev prayer.TriggerEvent, res prayer.DispatchResult) {
	b.broadcast(NewMessage(TypePrayerTriggered, PrayerTriggeredPayload{Event: ev, Dispatch: res}))
}

// OnScheduleRefreshed sends a schedule.refreshed event.
func (b *EventBroadcaster) OnScheduleRefreshed(snap prayer.Snapshot) {
	b.broadcast(NewMessage(TypeScheduleRefreshed, ScheduleRefreshedPayload{
		Location:   snap.LocationKey,
		Date:       snap.Schedule.Date(),
		Generation: snap.Generation,
		Entries:    snap.Schedule.Entries(),
	}))
}

// OnFetchError sends a schedule.fetch_error event.
func (b *EventBroadcaster) OnFetchError(err *prayer.FetchError) {
	b.broadcast(NewMessage(TypeScheduleFetchError, ScheduleFetchErrorPayload{
		Location:   err.Request.LocationKey,
		Date:       err.Request.Date,
		Generation: err.Request.Generation,
		Message:    err.Err.Error(),
	}))
}

// Notify mirrors a user notice to clients.
func (b *EventBroadcaster) Notify(title, body string) {
	b.BroadcastNotification("info", title, body, nil)
}

// BroadcastAudioStatus sends an audio.status_changed event.
func (b *EventBroadcaster) BroadcastAudioStatus(playing bool, path string) {
	b.broadcast(NewMessage(TypeAudioStatusChanged, AudioStatusPayload{Playing: playing, Path: path}))
}

// BroadcastNotification sends a notification to all connected clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string, action *NotificationAction) {
	b.broadcast(NewMessage(TypeNotification, NotificationPayload{
		Level:       level,
		Title:       title,
		Message:     message,
		Action:      action,
		Dismissible: true,
	}))
}

// BroadcastSystemStatusChanged sends a system status change event.
func (b *EventBroadcaster) BroadcastSystemStatusChanged(status map[string]any) {
	b.broadcast(NewMessage(TypeSystemStatusChanged, status))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Error().Err(err).Str("type", string(msg.Type)).Msg("Error encoding WebSocket message")
		return
	}
	b.hub.Broadcast(data)
}

package websocket

import (
	"encoding/json"
	"time"

	"github.com/fikrisyahid/adzanid/internal/prayer"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypePrayerTriggered     MessageType = "prayer.triggered"
	TypeScheduleRefreshed   MessageType = "schedule.refreshed"
	TypeScheduleFetchError  MessageType = "schedule.fetch_error"
	TypeAudioStatusChanged  MessageType = "audio.status_changed"
	TypeSystemStatusChanged MessageType = "system.status_changed"
	TypeNotification        MessageType = "notification"

	// Client -> Server
	TypePing MessageType = "ping"

	// Server -> Client responses
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// PrayerTriggeredPayload is the payload for prayer.triggered events.
type PrayerTriggeredPayload struct {
	Event    prayer.TriggerEvent   `json:"event"`
	Dispatch prayer.DispatchResult `json:"dispatch"`
}

// ScheduleRefreshedPayload is the payload for schedule.refreshed events.
type ScheduleRefreshedPayload struct {
	Location   string         `json:"location"`
	Date       prayer.Date    `json:"date"`
	Generation uint64         `json:"generation"`
	Entries    []prayer.Entry `json:"entries"`
}

// ScheduleFetchErrorPayload is the payload for schedule.fetch_error events.
type ScheduleFetchErrorPayload struct {
	Location   string      `json:"location"`
	Date       prayer.Date `json:"date"`
	Generation uint64      `json:"generation"`
	Message    string      `json:"message"`
}

// AudioStatusPayload is the payload for audio.status_changed events.
type AudioStatusPayload struct {
	Playing bool   `json:"playing"`
	Path    string `json:"path,omitempty"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level       string              `json:"level"` // info, warning, error, success
	Title       string              `json:"title"`
	Message     string              `json:"message"`
	Action      *NotificationAction `json:"action,omitempty"`
	Dismissible bool                `json:"dismissible"`
}

// NotificationAction is an optional action button for notifications.
type NotificationAction struct {
	Type  string `json:"type"` // "link"
	Label string `json:"label"`
	URL   string `json:"url"`
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	OriginalType string `json:"original_type,omitempty"`
}

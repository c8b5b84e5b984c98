package models

import "time"

// ArchivedSchedule is a stored daily schedule.
type ArchivedSchedule struct {
	ID        string            `json:"id"`
	Location  string            `json:"location"`
	Date      string            `json:"date"`
	Times     map[string]string `json:"times"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// TriggerRecord is one fired trigger and its effects.
type TriggerRecord struct {
	ID           string    `json:"id"`
	Prayer       string    `json:"prayer"`
	Date         string    `json:"date"`
	Minute       string    `json:"minute"`
	Location     string    `json:"location"`
	FiredAt      time.Time `json:"fired_at"`
	Notified     bool      `json:"notified"`
	DndActive    bool      `json:"dnd_active"`
	AudioStarted bool      `json:"audio_started"`
	AudioSkipped string    `json:"audio_skipped,omitempty"`
}

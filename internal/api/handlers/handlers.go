// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fikrisyahid/adzanid/internal/prayer"
	"github.com/fikrisyahid/adzanid/internal/storage/models"
)

// Scheduler is the part of *prayer.Scheduler the API drives.
type Scheduler interface {
	Status() prayer.Status
	Today(now time.Time) (*prayer.Schedule, error)
	Refresh()
	TriggerTest(delay time.Duration)
}

// AudioController is the part of *audio.Player the API drives.
type AudioController interface {
	Resolve(path string) (string, bool)
	Play(path string) bool
	Stop()
	Playing() (string, bool)
	Volume() int
	Muted() bool
}

// SettingsStore loads and saves user settings.
type SettingsStore interface {
	Load(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, s models.Settings) error
}

// SettingsApplier pushes saved settings into the running components.
type SettingsApplier interface {
	Apply(s models.Settings)
}

// ApplierFunc adapts a function to SettingsApplier.
type ApplierFunc func(models.Settings)

// Apply calls f.
func (f ApplierFunc) Apply(s models.Settings) { f(s) }

// TriggerLister lists recorded triggers.
type TriggerLister interface {
	ListRecent(ctx context.Context, limit int) ([]models.TriggerRecord, error)
}

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

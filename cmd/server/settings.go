package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fikrisyahid/adzanid/internal/api/handlers"
	"github.com/fikrisyahid/adzanid/internal/config"
	"github.com/fikrisyahid/adzanid/internal/storage/models"
)

type locationSetter interface {
	SetLocation(key string)
	SetAudioPath(path string)
}

type volumeControl interface {
	SetMuted(muted bool)
	SetVolume(v int)
}

type notificationToggle interface {
	SetEnabled(enabled bool)
}

// settingsApplier pushes settings into the scheduler and sinks. The
// scheduler ignores a location it already has.
type settingsApplier struct {
	sched   locationSetter
	audio   volumeControl
	desktop notificationToggle
}

func newSettingsApplier(sched locationSetter, audio volumeControl, desktop notificationToggle) *settingsApplier {
	return &settingsApplier{sched: sched, audio: audio, desktop: desktop}
}

var _ handlers.SettingsApplier = (*settingsApplier)(nil)

func (a *settingsApplier) Apply(s models.Settings) {
	a.sched.SetLocation(s.City)
	a.sched.SetAudioPath(s.AdhanPath)
	a.audio.SetVolume(s.Volume)
	a.audio.SetMuted(s.Muted)
	a.desktop.SetEnabled(s.DesktopNotifications)
}

// reloadSettings persists city and adhan path edits from the config file
// and applies them.
func reloadSettings(ctx context.Context, store handlers.SettingsStore, applier handlers.SettingsApplier, old, next *config.Config) {
	if old.City == next.City && old.AdhanPath == next.AdhanPath {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s, err := store.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load settings for config reload")
		return
	}
	if old.City != next.City {
		s.City = next.City
	}
	if old.AdhanPath != next.AdhanPath {
		s.AdhanPath = next.AdhanPath
	}
	if err := store.Save(ctx, s); err != nil {
		log.Error().Err(err).Msg("Failed to save settings from config reload")
		return
	}

	log.Info().Str("city", s.City).Str("adhan_path", s.AdhanPath).Msg("Applied settings from config file")
	applier.Apply(s)
}

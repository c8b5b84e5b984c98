package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/fikrisyahid/adzanid/internal/api/middleware"
	"github.com/fikrisyahid/adzanid/internal/storage/models"
)

var validate = validator.New()

// SettingsUpdate is a partial settings change. Omitted fields keep their value.
type SettingsUpdate struct {
	City                 *string `json:"city"`
	AdhanPath            *string `json:"adhan_path"`
	Muted                *bool   `json:"muted"`
	Volume               *int    `json:"volume"`
	DesktopNotifications *bool   `json:"desktop_notifications"`
}

func (u SettingsUpdate) applyTo(s models.Settings) models.Settings {
	if u.City != nil {
		s.City = *u.City
	}
	if u.AdhanPath != nil {
		s.AdhanPath = *u.AdhanPath
	}
	if u.Muted != nil {
		s.Muted = *u.Muted
	}
	if u.Volume != nil {
		s.Volume = *u.Volume
	}
	if u.DesktopNotifications != nil {
		s.DesktopNotifications = *u.DesktopNotifications
	}
	return s
}

// GetSettings returns the current settings.
func GetSettings(store SettingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Load(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query settings")
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

// UpdateSettings validates, persists and applies a settings change.
func UpdateSettings(store SettingsStore, applier SettingsApplier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req SettingsUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		current, err := store.Load(ctx)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query settings")
			return
		}

		next := req.applyTo(current)
		if err := validate.Struct(next); err != nil {
			middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation, "Invalid settings", validationDetails(err))
			return
		}

		if err := store.Save(ctx, next); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update settings")
			return
		}
		if applier != nil {
			applier.Apply(next)
		}

		log.Info().Str("city", next.City).Bool("muted", next.Muted).Int("volume", next.Volume).Msg("Settings updated")
		writeJSON(w, http.StatusOK, next)
	}
}

func validationDetails(err error) map[string]string {
	details := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return details
}

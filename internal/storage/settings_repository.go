package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/fikrisyahid/adzanid/internal/storage/models"
)

// SettingsRepository stores user settings as key/value rows.
type SettingsRepository struct {
	BaseRepository
	defaults models.Settings
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{
		BaseRepository: NewBaseRepository(db),
		defaults:       models.DefaultSettings(),
	}
}

// SetDefaults replaces the values Load uses for keys never saved.
func (r *SettingsRepository) SetDefaults(d models.Settings) {
	r.defaults = d
}

// Load returns the stored settings, with defaults for missing keys.
func (r *SettingsRepository) Load(ctx context.Context) (models.Settings, error) {
	s := r.defaults

	rows, err := r.DB().QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return s, fmt.Errorf("querying settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return s, fmt.Errorf("scanning setting: %w", err)
		}
		switch key {
		case models.KeyCity:
			s.City = value
		case models.KeyAdhanPath:
			s.AdhanPath = value
		case models.KeyMuted:
			s.Muted, _ = strconv.ParseBool(value)
		case models.KeyVolume:
			if v, err := strconv.Atoi(value); err == nil {
				s.Volume = v
			}
		case models.KeyDesktopNotifications:
			s.DesktopNotifications, _ = strconv.ParseBool(value)
		}
	}
	return s, rows.Err()
}

// Save writes every setting in one transaction.
func (r *SettingsRepository) Save(ctx context.Context, s models.Settings) error {
	values := map[string]string{
		models.KeyCity:                 s.City,
		models.KeyAdhanPath:            s.AdhanPath,
		models.KeyMuted:                strconv.FormatBool(s.Muted),
		models.KeyVolume:               strconv.Itoa(s.Volume),
		models.KeyDesktopNotifications: strconv.FormatBool(s.DesktopNotifications),
	}

	now := r.Now()
	return r.DB().Transaction(ctx, func(tx *sql.Tx) error {
		for key, value := range values {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
			`, key, value, now); err != nil {
				return fmt.Errorf("saving setting %s: %w", key, err)
			}
		}
		return nil
	})
}

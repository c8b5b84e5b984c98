// Package models contains the persisted records of the application.
package models

// Settings are the user preferences applied to the scheduler and players.
type Settings struct {
	City                 string `json:"city" validate:"required,max=100"`
	AdhanPath            string `json:"adhan_path" validate:"required,max=1024"`
	Muted                bool   `json:"muted"`
	Volume               int    `json:"volume" validate:"min=0,max=100"`
	DesktopNotifications bool   `json:"desktop_notifications"`
}

// Setting keys in the settings table.
const (
	KeyCity                 = "city"
	KeyAdhanPath            = "adhan_path"
	KeyMuted                = "muted"
	KeyVolume               = "volume"
	KeyDesktopNotifications = "desktop_notifications"
)

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{
		City:                 "Jakarta",
		AdhanPath:            "assets/adzan.mp3",
		Muted:                false,
		Volume:               100,
		DesktopNotifications: true,
	}
}

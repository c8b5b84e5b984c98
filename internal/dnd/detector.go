// Package dnd detects whether the desktop's do-not-disturb mode is on.
package dnd

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Detector probes the platform DND state. It satisfies prayer.DndGate;
// callers bound it with prayer.QueryDnd.
type Detector struct {
	fs  afero.Fs
	log zerolog.Logger
}

// New creates a detector reading from the OS filesystem.
func New() *Detector {
	return NewWithFs(afero.NewOsFs())
}

// NewWithFs creates a detector reading state files from fs.
func NewWithFs(fs afero.Fs) *Detector {
	return &Detector{
		fs:  fs,
		log: log.Logger.With().Str("component", "dnd").Logger(),
	}
}

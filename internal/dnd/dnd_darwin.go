//go:build darwin

package dnd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/afero"
)

// IsActive reads the Focus assertions of macOS 12+, falling back to the
// legacy notification center preference.
func (d *Detector) IsActive(ctx context.Context) (bool, error) {
	var errs []error

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, "Library", "DoNotDisturb", "DB", "Assertions.json")
		if raw, err := afero.ReadFile(d.fs, path); err == nil {
			active, err := focusAsserted(raw)
			if err == nil {
				return active, nil
			}
			errs = append(errs, err)
		}
	}

	out, err := exec.CommandContext(ctx, "defaults", "-currentHost", "read", "com.apple.notificationcenterui", "doNotDisturb").Output()
	if err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
		return false, errors.Join(errs...)
	}
	return legacyDoNotDisturb(string(out)), nil
}

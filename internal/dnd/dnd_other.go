//go:build !linux && !darwin && !windows

package dnd

import "context"

// IsActive always reports inactive on platforms without a DND source.
func (d *Detector) IsActive(ctx context.Context) (bool, error) {
	return false, nil
}

//go:build !linux && !darwin && !windows

package notify

import (
	"context"
	"errors"
)

func sendNative(context.Context, string, string) error {
	return errors.New("desktop notifications are not supported on this platform")
}

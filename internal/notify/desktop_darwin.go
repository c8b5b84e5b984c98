//go:build darwin

package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

func sendNative(ctx context.Context, title, body string) error {
	script := fmt.Sprintf("display notification %s with title %s sound name %s",
		strconv.Quote(body), strconv.Quote(title), strconv.Quote("default"))
	if out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %w: %s", err, out)
	}
	return nil
}

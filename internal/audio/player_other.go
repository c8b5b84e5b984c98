//go:build !linux && !darwin && !windows

package audio

import "os/exec"

func command(string, int) (*exec.Cmd, error) {
	return nil, ErrNoPlayer
}

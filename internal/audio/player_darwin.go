//go:build darwin

package audio

import (
	"os/exec"
	"strconv"
)

func command(path string, volume int) (*exec.Cmd, error) {
	bin, err := exec.LookPath("afplay")
	if err != nil {
		return nil, ErrNoPlayer
	}
	return exec.Command(bin, "-v", strconv.FormatFloat(float64(volume)/100, 'f', 2, 64), path), nil
}

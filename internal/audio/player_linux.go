//go:build linux

package audio

import (
	"fmt"
	"os/exec"
	"strconv"
)

// command picks the first installed player. paplay only decodes
// uncompressed formats, so it comes last.
func command(path string, volume int) (*exec.Cmd, error) {
	if bin, err := exec.LookPath("ffplay"); err == nil {
		return exec.Command(bin, "-nodisp", "-autoexit", "-loglevel", "quiet", "-volume", strconv.Itoa(volume), path), nil
	}
	if bin, err := exec.LookPath("mpg123"); err == nil {
		return exec.Command(bin, "-q", "-f", strconv.Itoa(32768*volume/100), path), nil
	}
	if bin, err := exec.LookPath("paplay"); err == nil {
		return exec.Command(bin, fmt.Sprintf("--volume=%d", 65536*volume/100), path), nil
	}
	return nil, ErrNoPlayer
}

//go:build windows

package audio

import (
	"fmt"
	"os/exec"
	"strings"
)

const mediaPlayerScript = `
Add-Type -AssemblyName PresentationCore
$p = New-Object System.Windows.Media.MediaPlayer
$p.Open([uri]'%s')
$p.Volume = %.2f
$p.Play()
Start-Sleep -Milliseconds 500
while (-not $p.NaturalDuration.HasTimeSpan) { Start-Sleep -Milliseconds 100 }
Start-Sleep -Milliseconds ([int]$p.NaturalDuration.TimeSpan.TotalMilliseconds)
`

func command(path string, volume int) (*exec.Cmd, error) {
	bin, err := exec.LookPath("powershell")
	if err != nil {
		return nil, ErrNoPlayer
	}
	script := fmt.Sprintf(mediaPlayerScript, strings.ReplaceAll(path, "'", "''"), float64(volume)/100)
	return exec.Command(bin, "-NoProfile", "-NonInteractive", "-Command", script), nil
}

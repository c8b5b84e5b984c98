// Package audio plays the adhan through the platform's command-line players.
package audio

import (
	"errors"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrNoPlayer is returned when no supported player binary is installed.
var ErrNoPlayer = errors.New("no audio player available")

type process interface {
	Wait() error
	Kill() error
}

type startFunc func(path string, volume int) (process, error)

// StateFunc is called when playback starts or ends.
type StateFunc func(playing bool, path string)

// Player plays one file at a time. It implements prayer.AudioSink and
// prayer.ResourceResolver. Mute and volume live here, not in the scheduler.
type Player struct {
	fs       afero.Fs
	baseDirs []string
	start    startFunc
	log      zerolog.Logger

	mu       sync.Mutex
	current  process
	path     string
	seq      uint64
	volume   int
	muted    bool
	onChange StateFunc
}

// NewPlayer creates a player. Relative paths resolve against baseDirs in
// order.
func NewPlayer(fs afero.Fs, baseDirs ...string) *Player {
	return &Player{
		fs:       fs,
		baseDirs: baseDirs,
		start:    startNative,
		log:      log.Logger.With().Str("component", "audio").Logger(),
		volume:   100,
	}
}

// OnStateChange registers fn for playback transitions.
func (p *Player) OnStateChange(fn StateFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

// Resolve returns an existing regular file for path.
func (p *Player) Resolve(path string) (string, bool) {
	if path == "" {
		return "", false
	}

	candidates := []string{path}
	if !filepath.IsAbs(path) {
		candidates = candidates[:0]
		for _, dir := range p.baseDirs {
			candidates = append(candidates, filepath.Join(dir, path))
		}
		if len(candidates) == 0 {
			candidates = append(candidates, path)
		}
	}

	for _, c := range candidates {
		fi, err := p.fs.Stat(c)
		if err == nil && fi.Mode().IsRegular() {
			return c, true
		}
	}
	return "", false
}

// Play starts path, replacing anything already playing. It returns false
// when muted or when no player could be started.
func (p *Player) Play(path string) bool {
	p.mu.Lock()
	if p.muted {
		p.mu.Unlock()
		p.log.Info().Msg("Muted, not playing adhan")
		return false
	}
	p.stopLocked()

	proc, err := p.start(path, p.volume)
	if err != nil {
		p.mu.Unlock()
		p.log.Error().Err(err).Str("path", path).Msg("Failed to start playback")
		return false
	}
	p.seq++
	seq := p.seq
	p.current = proc
	p.path = path
	onChange := p.onChange
	p.mu.Unlock()

	p.log.Info().Str("path", path).Msg("Playing adhan")
	if onChange != nil {
		onChange(true, path)
	}

	go p.wait(proc, seq, path)
	return true
}

func (p *Player) wait(proc process, seq uint64, path string) {
	err := proc.Wait()

	p.mu.Lock()
	if p.seq != seq {
		p.mu.Unlock()
		return
	}
	p.current = nil
	p.path = ""
	onChange := p.onChange
	p.mu.Unlock()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		p.log.Warn().Err(err).Msg("Playback ended with error")
	}
	if onChange != nil {
		onChange(false, path)
	}
}

// Stop stops playback, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.current == nil {
		return
	}
	if err := p.current.Kill(); err != nil {
		p.log.Debug().Err(err).Msg("Killing player")
	}
}

// Playing reports the file currently playing.
func (p *Player) Playing() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path, p.current != nil
}

// SetVolume sets the volume for the next playback, clamped to 0..100.
func (p *Player) SetVolume(v int) {
	v = max(0, min(100, v))
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
}

// Volume returns the configured volume.
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetMuted mutes or unmutes. Muting stops current playback.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
	if muted {
		p.stopLocked()
	}
}

// Muted reports whether playback is muted.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

type cmdProcess struct {
	cmd *exec.Cmd
}

func (c cmdProcess) Wait() error { return c.cmd.Wait() }
func (c cmdProcess) Kill() error { return c.cmd.Process.Kill() }

func startNative(path string, volume int) (process, error) {
	cmd, err := command(path, volume)
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmdProcess{cmd: cmd}, nil
}

package audio

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcess struct {
	done   chan struct{}
	once   sync.Once
	killed bool
}

func newFakeProcess() *fakeProcess { return &fakeProcess{done: make(chan struct{})} }

func (f *fakeProcess) Wait() error {
	<-f.done
	return nil
}

func (f *fakeProcess) Kill() error {
	f.killed = true
	f.finish()
	return nil
}

func (f *fakeProcess) finish() { f.once.Do(func() { close(f.done) }) }

type starter struct {
	mu      sync.Mutex
	procs   []*fakeProcess
	volumes []int
	err     error
}

func (s *starter) start(path string, volume int) (process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	p := newFakeProcess()
	s.procs = append(s.procs, p)
	s.volumes = append(s.volumes, volume)
	return p, nil
}

func newTestPlayer(t *testing.T) (*Player, *starter, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/opt/adzanid/assets/adzan.mp3", []byte("ID3"), 0o644))
	require.NoError(t, fs.MkdirAll("/opt/adzanid/assets/dir.mp3", 0o755))

	p := NewPlayer(fs, "/home/user", "/opt/adzanid")
	s := &starter{}
	p.start = s.start
	return p, s, fs
}

func TestResolve(t *testing.T) {
	p, _, _ := newTestPlayer(t)

	got, ok := p.Resolve("assets/adzan.mp3")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/opt/adzanid", "assets/adzan.mp3"), got)

	got, ok = p.Resolve("/opt/adzanid/assets/adzan.mp3")
	require.True(t, ok)
	assert.Equal(t, "/opt/adzanid/assets/adzan.mp3", got)

	_, ok = p.Resolve("assets/missing.mp3")
	assert.False(t, ok)
	_, ok = p.Resolve("assets/dir.mp3")
	assert.False(t, ok, "directories are not playable")
	_, ok = p.Resolve("")
	assert.False(t, ok)
}

func TestPlayAndNaturalEnd(t *testing.T) {
	p, s, _ := newTestPlayer(t)

	var mu sync.Mutex
	var states []bool
	p.OnStateChange(func(playing bool, _ string) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, playing)
	})

	require.True(t, p.Play("/opt/adzanid/assets/adzan.mp3"))
	path, playing := p.Playing()
	assert.True(t, playing)
	assert.Equal(t, "/opt/adzanid/assets/adzan.mp3", path)

	s.procs[0].finish()
	require.Eventually(t, func() bool {
		_, playing := p.Playing()
		return !playing
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []bool{true, false}, states)
}

func TestPlayReplacesCurrent(t *testing.T) {
	p, s, _ := newTestPlayer(t)

	require.True(t, p.Play("a.mp3"))
	require.True(t, p.Play("b.mp3"))

	assert.True(t, s.procs[0].killed)
	path, playing := p.Playing()
	assert.True(t, playing)
	assert.Equal(t, "b.mp3", path)

	p.Stop()
	assert.True(t, s.procs[1].killed)
	require.Eventually(t, func() bool {
		_, playing := p.Playing()
		return !playing
	}, time.Second, 5*time.Millisecond)
}

func TestMutedDoesNotPlay(t *testing.T) {
	p, s, _ := newTestPlayer(t)

	require.True(t, p.Play("a.mp3"))
	p.SetMuted(true)
	assert.True(t, p.Muted())
	assert.True(t, s.procs[0].killed, "muting stops playback")

	assert.False(t, p.Play("a.mp3"))
	assert.Len(t, s.procs, 1)

	p.SetMuted(false)
	assert.True(t, p.Play("a.mp3"))
}

func TestVolumeIsClampedAndPassed(t *testing.T) {
	p, s, _ := newTestPlayer(t)

	p.SetVolume(150)
	assert.Equal(t, 100, p.Volume())
	p.SetVolume(-5)
	assert.Equal(t, 0, p.Volume())

	p.SetVolume(35)
	require.True(t, p.Play("a.mp3"))
	assert.Equal(t, []int{35}, s.volumes)
}

func TestStartFailureReturnsFalse(t *testing.T) {
	p, s, _ := newTestPlayer(t)
	s.err = errors.New("exec: ffplay not found")

	assert.False(t, p.Play("a.mp3"))
	_, playing := p.Playing()
	assert.False(t, playing)
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20, cfg.Aladhan.Method)
	assert.Equal(t, "0,1,0,2,3,2,0,1,0", cfg.Aladhan.Tune)
	assert.Equal(t, 3*time.Second, cfg.DndTimeout)
}

func TestLoadFileLayersYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adzanid.yaml")
	writeFile(t, path, `
addr: ":9000"
city: Bandung
dnd_timeout: 1500ms
aladhan:
  method: 11
mqtt:
  broker: tcp://localhost:1883
redis:
  ttl: 24h
`)
	t.Setenv("CITY", "Yogyakarta")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DESKTOP_NOTIFICATIONS", "false")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "Yogyakarta", cfg.City, "environment wins over file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.DesktopNotifications)
	assert.Equal(t, 1500*time.Millisecond, cfg.DndTimeout)
	assert.Equal(t, 11, cfg.Aladhan.Method)
	assert.Equal(t, "Indonesia", cfg.Aladhan.Country, "unset keys keep defaults")
	assert.Equal(t, "adzanid/prayer", cfg.MQTT.Topic)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "log_level: loud\n")
	_, err := LoadFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")

	broken := filepath.Join(dir, "broken.yaml")
	writeFile(t, broken, "city: [unterminated\n")
	_, err = LoadFile(broken)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvParsingIgnoresGarbage(t *testing.T) {
	t.Setenv("ALADHAN_METHOD", "twenty")
	t.Setenv("DND_TIMEOUT", "soon")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Aladhan.Method)
	assert.Equal(t, 3*time.Second, cfg.DndTimeout)
	assert.Equal(t, filepath.Join(cfg.DataDir, "adzanid.db"), cfg.DBPath())
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adzanid.yaml")
	writeFile(t, path, "city: Bandung\n")

	initial, err := LoadFile(path)
	require.NoError(t, err)

	w := NewWatcher(initial)
	w.debounce = 20 * time.Millisecond

	var mu sync.Mutex
	var changes [][2]string
	w.OnChange(func(old, new *Config) {
		mu.Lock()
		changes = append(changes, [2]string{old.City, new.City})
		mu.Unlock()
	})
	w.OnChange(func(*Config, *Config) { panic("callback bug") })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register
	time.Sleep(50 * time.Millisecond)
	writeFile(t, path, "city: Surabaya\n")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(changes) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, [2]string{"Bandung", "Surabaya"}, changes[0])
	assert.Equal(t, "Surabaya", w.Config().City)

	// an invalid edit keeps the last good config
	writeFile(t, path, "log_level: loud\n")
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "Surabaya", w.Config().City)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcherWithoutFileReturns(t *testing.T) {
	w := NewWatcher(Default())
	assert.NoError(t, w.Run(context.Background()))
}

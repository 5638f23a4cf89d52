package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ensigniasec/countdown/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, 60, cfg.TotalSeconds())
	assert.Equal(t, engine.PolicyStop, cfg.Policy())
	assert.True(t, cfg.Sound.Tick)
	assert.True(t, cfg.Sound.Completion)
	assert.InDelta(t, 0.8, cfg.Sound.Volume, 1e-9)
	assert.True(t, cfg.Notifications)
	assert.Equal(t, 3*time.Second, cfg.BuzzerDuration)
	require.NoError(t, cfg.Validate())
}

func TestLoadNonExistent(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &Config{
		Duration:       DurationConfig{Hours: 1, Minutes: 2, Seconds: 3},
		OnZero:         "stopwatch",
		Sound:          SoundConfig{Tick: false, Completion: true, Volume: 0.25},
		Notifications:  false,
		BuzzerDuration: 5 * time.Second,
	}

	require.NoError(t, Save(path, cfg))
	require.True(t, Exists(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, 3723, loaded.TotalSeconds())
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("onZero: Restart\nsound:\n  volume: 0.5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, engine.PolicyRestart, cfg.Policy())
	assert.InDelta(t, 0.5, cfg.Sound.Volume, 1e-9)
	assert.Equal(t, 60, cfg.TotalSeconds())
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown policy", "onZero: loop\n"},
		{"volume too high", "sound:\n  volume: 2\n"},
		{"minutes out of range", "duration:\n  minutes: 75\n"},
		{"negative seconds", "duration:\n  seconds: -1\n"},
		{"malformed yaml", "duration: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.OnZero = "forever"

	require.ErrorIs(t, Save(path, cfg), ErrInvalidConfig)
	assert.False(t, Exists(path))
}

func TestSet(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Set("duration", "01:30:00"))
	assert.Equal(t, DurationConfig{Hours: 1, Minutes: 30}, cfg.Duration)

	require.NoError(t, cfg.Set("duration.seconds", "15"))
	require.NoError(t, cfg.Set("onZero", "RESTART"))
	require.NoError(t, cfg.Set("sound.tick", "false"))
	require.NoError(t, cfg.Set("sound.volume", "0.3"))
	require.NoError(t, cfg.Set("notifications", "false"))
	require.NoError(t, cfg.Set("buzzerDuration", "10s"))

	assert.Equal(t, 15, cfg.Duration.Seconds)
	assert.Equal(t, engine.PolicyRestart, cfg.Policy())
	assert.False(t, cfg.Sound.Tick)
	assert.InDelta(t, 0.3, cfg.Sound.Volume, 1e-9)
	assert.False(t, cfg.Notifications)
	assert.Equal(t, 10*time.Second, cfg.BuzzerDuration)
}

func TestSetRejects(t *testing.T) {
	t.Parallel()

	for _, kv := range [][2]string{
		{"colour", "blue"},
		{"duration", "abc"},
		{"duration.hours", "24"},
		{"sound.volume", "loud"},
		{"onZero", "pause"},
		{"buzzerDuration", "soon"},
	} {
		cfg := Default()
		require.ErrorIs(t, cfg.Set(kv[0], kv[1]), ErrInvalidConfig, "%s=%s", kv[0], kv[1])
	}
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ResolvePath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "countdown", "config.yaml"), got)

	got, err = ResolvePath("/tmp/x.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.yaml", got)
}

func TestWatchReloads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, Save(path, Default()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) {
			select {
			case got <- c:
			default:
			}
		})
	}()

	// Rewrite until the watcher, which registers asynchronously, sees a change.
	updated := Default()
	updated.OnZero = "restart"
	assert.Eventually(t, func() bool {
		if err := Save(path, updated); err != nil {
			return false
		}
		select {
		case c := <-got:
			return c.Policy() == engine.PolicyRestart
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

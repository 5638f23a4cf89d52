// Package config loads and saves the countdown settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ensigniasec/countdown/internal/engine"
	"github.com/ensigniasec/countdown/internal/validate"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the settings file lives unless --config says otherwise.
const DefaultPath = "~/.config/countdown/config.yaml"

// ErrInvalidConfig is returned when a settings file parses but holds values
// outside their allowed range.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the user's timer settings.
type Config struct {
	Duration       DurationConfig `yaml:"duration"`
	OnZero         string         `yaml:"onZero"         validate:"oneof=stop restart stopwatch"`
	Sound          SoundConfig    `yaml:"sound"`
	Notifications  bool           `yaml:"notifications"`
	BuzzerDuration time.Duration  `yaml:"buzzerDuration" validate:"gte=0,lte=1m"`
}

// DurationConfig is the default countdown length.
type DurationConfig struct {
	Hours   int `yaml:"hours"   validate:"gte=0,lte=23"`
	Minutes int `yaml:"minutes" validate:"gte=0,lte=59"`
	Seconds int `yaml:"seconds" validate:"gte=0,lte=59"`
}

// SoundConfig toggles the audio cues.
type SoundConfig struct {
	Tick       bool    `yaml:"tick"`
	Completion bool    `yaml:"completion"`
	Volume     float64 `yaml:"volume" validate:"gte=0,lte=1"`
}

// Default returns the built-in settings: one minute, stop at zero, all cues on.
func Default() *Config {
	return &Config{
		Duration:       DurationConfig{Minutes: 1},
		OnZero:         string(engine.PolicyStop),
		Sound:          SoundConfig{Tick: true, Completion: true, Volume: 0.8},
		Notifications:  true,
		BuzzerDuration: engine.DefaultBuzzerDuration,
	}
}

// TotalSeconds returns the configured duration in seconds.
func (c *Config) TotalSeconds() int {
	return c.Duration.Hours*3600 + c.Duration.Minutes*60 + c.Duration.Seconds
}

// Policy returns the parsed on-zero policy.
func (c *Config) Policy() engine.OnZeroPolicy {
	return engine.OnZeroPolicy(c.OnZero)
}

// Validate checks every field against its allowed range.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ResolvePath expands a leading ~ and falls back to DefaultPath when path is
// empty.
func ResolvePath(path string) (string, error) {
	if path == "" {
		path = DefaultPath
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}

// Exists reports whether the settings file exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads and validates the settings file. A missing file yields Default()
// and no error. Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.OnZero = strings.ToLower(strings.TrimSpace(cfg.OnZero))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save validates cfg and writes it, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// YAML renders the settings the way Save writes them.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Set assigns one setting by its dotted YAML key, e.g. "sound.volume" or
// "onZero". The value is parsed as YAML so "true", "0.5" and "5s" all work.
func (c *Config) Set(key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "duration":
		err = c.setDuration(value)
	case "duration.hours":
		err = yaml.Unmarshal([]byte(value), &c.Duration.Hours)
	case "duration.minutes":
		err = yaml.Unmarshal([]byte(value), &c.Duration.Minutes)
	case "duration.seconds":
		err = yaml.Unmarshal([]byte(value), &c.Duration.Seconds)
	case "onzero":
		c.OnZero = strings.ToLower(strings.TrimSpace(value))
	case "sound.tick":
		err = yaml.Unmarshal([]byte(value), &c.Sound.Tick)
	case "sound.completion":
		err = yaml.Unmarshal([]byte(value), &c.Sound.Completion)
	case "sound.volume":
		err = yaml.Unmarshal([]byte(value), &c.Sound.Volume)
	case "notifications":
		err = yaml.Unmarshal([]byte(value), &c.Notifications)
	case "buzzerduration":
		c.BuzzerDuration, err = time.ParseDuration(value)
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
	}
	return c.Validate()
}

// setDuration accepts MM:SS or HH:MM:SS.
func (c *Config) setDuration(value string) error {
	total, err := engine.ParseClock(value)
	if err != nil {
		return err
	}
	h, m, s := engine.Split(total)
	c.Duration = DurationConfig{Hours: h, Minutes: m, Seconds: s}
	return nil
}

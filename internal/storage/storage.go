// Package storage persists the timer's runtime state: the last configured
// duration and a bounded history of completed countdowns.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/countdown/internal/validate"
)

// DefaultPath is where state lives unless --state-file says otherwise.
const DefaultPath = "~/.local/state/countdown/state.json"

// MaxHistory bounds the number of completions kept on disk.
const MaxHistory = 50

// Completion records one countdown that reached zero.
type Completion struct {
	ID           string    `json:"id"            validate:"required,uuid_rfc4122"`
	FinishedAt   time.Time `json:"finished_at"   validate:"required"`
	TotalSeconds int       `json:"total_seconds" validate:"gte=0"`
	Policy       string    `json:"policy"        validate:"omitempty,oneof=stop restart stopwatch"`
}

// Data represents the structure of the state file.
type Data struct {
	LastDuration int          `json:"last_duration"         validate:"gte=0,lte=86399"`
	History      []Completion `json:"history"               validate:"dive"`
	InstanceID   string       `json:"instance_id,omitempty" validate:"omitempty,uuid4"`
}

// Storage handles the loading and saving of the state file. It is safe for
// concurrent use; completions are recorded from timer callbacks.
type Storage struct {
	Path string `validate:"required,filepath"`
	Data Data

	mu sync.Mutex
}

// NewStorage creates a new Storage instance, loading the file if it exists.
func NewStorage(path string) (*Storage, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	s := &Storage{
		Path: expandedPath,
		Data: Data{History: []Completion{}},
	}

	if err := s.Load(); err != nil {
		// If the file doesn't exist, we can ignore the error.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if s.Data.InstanceID == "" {
		s.Data.InstanceID = uuid.NewString()
	}

	return s, nil
}

// NewOrExistingStorage returns existing storage if the file exists, or creates a new one otherwise.
// When creating a new storage, it writes the initial structure to disk immediately.
func NewOrExistingStorage(path string) (*Storage, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(expandedPath); err == nil {
		return NewStorage(path)
	} else if os.IsNotExist(err) {
		s, err := NewStorage(path)
		if err != nil {
			return nil, err
		}
		if err := s.Save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, err
}

// Load reads the state file and repairs what it can.
func (s *Storage) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logrus.Debug("Loading state file from: ", s.Path)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &s.Data); err != nil {
		return err
	}

	// Validate loaded data and self-heal when possible.
	if err := validate.Struct(s.Data); err != nil {
		if s.heal() {
			if err := s.saveLocked(); err != nil {
				return err
			}
		}
	}
	return nil
}

// heal fixes invalid fields in place and reports whether anything changed.
func (s *Storage) heal() bool {
	changed := false
	if s.Data.InstanceID == "" || validate.Var(s.Data.InstanceID, "uuid4") != nil {
		s.Data.InstanceID = uuid.NewString()
		changed = true
	}
	if validate.Var(s.Data.LastDuration, "gte=0,lte=86399") != nil {
		logrus.Warn("Invalid last_duration found in state; resetting.")
		s.Data.LastDuration = 0
		changed = true
	}
	kept := s.Data.History[:0]
	for _, c := range s.Data.History {
		if validate.Struct(c) != nil {
			changed = true
			continue
		}
		kept = append(kept, c)
	}
	if dropped := len(s.Data.History) - len(kept); dropped > 0 {
		logrus.Warnf("Dropped %d invalid history entries from state.", dropped)
	}
	s.Data.History = kept
	return changed
}

// Save writes the state data to the file.
func (s *Storage) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Storage) saveLocked() error {
	logrus.Debug("Saving state file to: ", s.Path)
	// Ensure parent directory exists.
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0o600)
}

// Record appends a completion, trims history to MaxHistory entries, and saves.
func (s *Storage) Record(totalSeconds int, policy string) (Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := Completion{
		ID:           uuid.NewString(),
		FinishedAt:   time.Now().UTC(),
		TotalSeconds: totalSeconds,
		Policy:       policy,
	}
	s.Data.History = append(s.Data.History, c)
	if over := len(s.Data.History) - MaxHistory; over > 0 {
		s.Data.History = append([]Completion(nil), s.Data.History[over:]...)
	}
	return c, s.saveLocked()
}

// Recent returns up to n completions, newest first. n <= 0 returns all.
func (s *Storage) Recent(n int) []Completion {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.Data.History
	if n <= 0 || n > len(h) {
		n = len(h)
	}
	out := make([]Completion, 0, n)
	for i := len(h) - 1; i >= len(h)-n; i-- {
		out = append(out, h[i])
	}
	return out
}

// SetLastDuration remembers the most recently configured duration and saves.
func (s *Storage) SetLastDuration(totalSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Data.LastDuration == totalSeconds {
		return nil
	}
	s.Data.LastDuration = totalSeconds
	return s.saveLocked()
}

// LastDuration returns the remembered duration in seconds, or 0.
func (s *Storage) LastDuration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Data.LastDuration
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

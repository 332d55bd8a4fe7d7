package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const stateFile = ".hours/state.json"
const lockFile = ".hours/state.json.lock"

// State is per-directory editor UI state.
type State struct {
	// ExpandedSchedule is the ID of the schedule panel left open.
	ExpandedSchedule string `json:"expanded_schedule,omitempty"`
	// LastScheduleName remembers the last name typed into the create form.
	LastScheduleName string `json:"last_schedule_name,omitempty"`
}

// Load reads the state from disk
func Load(baseDir string) (*State, error) {
	statePath := filepath.Join(baseDir, stateFile)

	data, err := os.ReadFile(statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}

	return &st, nil
}

// Save writes the state to disk using atomic write (temp file + rename)
func Save(baseDir string, st *State) error {
	statePath := filepath.Join(baseDir, stateFile)

	dir := filepath.Dir(statePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "state-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, statePath)
}

// withStateLock serializes access to state.json using flock
func withStateLock(baseDir string, fn func() error) error {
	lockPath := filepath.Join(baseDir, lockFile)

	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := lockFileExclusive(f); err != nil {
		return err
	}
	defer unlockFile(f)

	return fn()
}

// update loads, mutates and saves the state under the lock
func update(baseDir string, fn func(*State)) error {
	return withStateLock(baseDir, func() error {
		st, err := Load(baseDir)
		if err != nil {
			return err
		}
		fn(st)
		return Save(baseDir, st)
	})
}

// GetExpandedSchedule returns the ID of the expanded schedule panel, or ""
func GetExpandedSchedule(baseDir string) (string, error) {
	st, err := Load(baseDir)
	if err != nil {
		return "", err
	}
	return st.ExpandedSchedule, nil
}

// SetExpandedSchedule saves which schedule panel is expanded
func SetExpandedSchedule(baseDir, scheduleID string) error {
	return update(baseDir, func(st *State) { st.ExpandedSchedule = scheduleID })
}

// ClearExpandedSchedule collapses every panel
func ClearExpandedSchedule(baseDir string) error {
	return SetExpandedSchedule(baseDir, "")
}

// GetLastScheduleName returns the last name entered in the create form
func GetLastScheduleName(baseDir string) (string, error) {
	st, err := Load(baseDir)
	if err != nil {
		return "", err
	}
	return st.LastScheduleName, nil
}

// SetLastScheduleName remembers the last name entered in the create form
func SetLastScheduleName(baseDir, name string) error {
	return update(baseDir, func(st *State) { st.LastScheduleName = name })
}

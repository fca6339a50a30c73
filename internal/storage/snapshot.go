// Package storage persists the client-local state (selected
// character, study ledger) as a versioned JSON snapshot file.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/models"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/study"
)

// snapshotVersion is bumped when the on-disk shape changes. A file
// with an unknown version is treated as no prior data, never
// half-parsed.
const snapshotVersion = 1

// snapshot is the on-disk shape. Timestamps are stored as RFC 3339
// strings and reconstructed explicitly on load rather than trusting
// whatever json decodes to.
type snapshot struct {
	Version           int               `json:"version"`
	SelectedCharacter string            `json:"selected_character,omitempty"`
	Goal              *goalSnapshot     `json:"study_goal,omitempty"`
	TodaySessions     []sessionSnapshot `json:"today_sessions,omitempty"`
	LastResetDate     string            `json:"last_reset_date,omitempty"`
}

type goalSnapshot struct {
	TargetHours      float64 `json:"target_hours"`
	CompletedMinutes int     `json:"completed_minutes"`
}

type sessionSnapshot struct {
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
}

// SnapshotStore reads and writes the snapshot file.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a store backed by the given file path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// DefaultPath returns the snapshot location under the user's home
// directory.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".studybuddy", "state.json"), nil
}

// LoadLedger implements study.Store. Missing, unreadable or malformed
// snapshots report ok=false so the caller falls back to defaults.
func (s *SnapshotStore) LoadLedger() (study.State, bool, error) {
	snap, ok := s.read()
	if !ok || snap.Goal == nil {
		return study.State{}, false, nil
	}

	state := study.State{
		Goal: models.StudyGoal{
			TargetHours:      snap.Goal.TargetHours,
			CompletedMinutes: snap.Goal.CompletedMinutes,
		},
		LastResetDate: snap.LastResetDate,
	}

	for _, sess := range snap.TodaySessions {
		decoded, err := decodeSession(sess)
		if err != nil {
			// One unreadable session poisons the whole snapshot;
			// partial history would break the completed-minutes sum.
			return study.State{}, false, nil
		}
		state.TodaySessions = append(state.TodaySessions, decoded)
	}

	return state, true, nil
}

// SaveLedger implements study.Store. The selected character survives
// ledger writes: the whole snapshot is rewritten from the merged
// state.
func (s *SnapshotStore) SaveLedger(state study.State) error {
	snap, _ := s.read()
	snap.Version = snapshotVersion
	snap.Goal = &goalSnapshot{
		TargetHours:      state.Goal.TargetHours,
		CompletedMinutes: state.Goal.CompletedMinutes,
	}
	snap.LastResetDate = state.LastResetDate
	snap.TodaySessions = nil
	for _, sess := range state.TodaySessions {
		snap.TodaySessions = append(snap.TodaySessions, encodeSession(sess))
	}
	return s.write(snap)
}

// SelectedCharacter returns the persisted character selection.
func (s *SnapshotStore) SelectedCharacter() (string, bool) {
	snap, ok := s.read()
	if !ok || snap.SelectedCharacter == "" {
		return "", false
	}
	return snap.SelectedCharacter, true
}

// SaveSelectedCharacter persists the character selection without
// touching the ledger fields.
func (s *SnapshotStore) SaveSelectedCharacter(id string) error {
	snap, _ := s.read()
	snap.Version = snapshotVersion
	snap.SelectedCharacter = id
	return s.write(snap)
}

// read loads and validates the snapshot file. Any failure (missing
// file, bad JSON, unknown version) yields ok=false and an empty
// snapshot: malformed local state means starting over, not crashing.
func (s *SnapshotStore) read() (snapshot, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return snapshot{}, false
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snapshot{}, false
	}
	if snap.Version != snapshotVersion {
		return snapshot{}, false
	}
	return snap, true
}

func (s *SnapshotStore) write(snap snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}

func encodeSession(sess models.StudySession) sessionSnapshot {
	out := sessionSnapshot{
		StartTime:       sess.StartTime.Format(time.RFC3339Nano),
		DurationMinutes: sess.DurationMinutes,
	}
	if sess.EndTime != nil {
		out.EndTime = sess.EndTime.Format(time.RFC3339Nano)
	}
	return out
}

func decodeSession(sess sessionSnapshot) (models.StudySession, error) {
	start, err := time.Parse(time.RFC3339Nano, sess.StartTime)
	if err != nil {
		return models.StudySession{}, fmt.Errorf("bad session start time %q: %w", sess.StartTime, err)
	}
	out := models.StudySession{
		StartTime:       start,
		DurationMinutes: sess.DurationMinutes,
	}
	if sess.EndTime != "" {
		end, err := time.Parse(time.RFC3339Nano, sess.EndTime)
		if err != nil {
			return models.StudySession{}, fmt.Errorf("bad session end time %q: %w", sess.EndTime, err)
		}
		out.EndTime = &end
	}
	return out, nil
}

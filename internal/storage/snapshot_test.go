package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/models"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/storage"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/study"
)

func tempStore(t *testing.T) *storage.SnapshotStore {
	t.Helper()
	return storage.NewSnapshotStore(filepath.Join(t.TempDir(), "state.json"))
}

func TestLoadLedgerMissingFile(t *testing.T) {
	store := tempStore(t)

	_, ok, err := store.LoadLedger()
	if err != nil {
		t.Fatalf("LoadLedger failed: %v", err)
	}
	if ok {
		t.Error("a missing snapshot must report no prior data")
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	store := tempStore(t)

	start := time.Date(2026, 9, 1, 9, 30, 0, 0, time.Local)
	end := start.Add(50 * time.Minute)
	state := study.State{
		Goal: models.StudyGoal{TargetHours: 2.5, CompletedMinutes: 50},
		TodaySessions: []models.StudySession{
			{StartTime: start, EndTime: &end, DurationMinutes: 50},
		},
		LastResetDate: "2026-09-01",
	}

	if err := store.SaveLedger(state); err != nil {
		t.Fatalf("SaveLedger failed: %v", err)
	}

	loaded, ok, err := store.LoadLedger()
	if err != nil {
		t.Fatalf("LoadLedger failed: %v", err)
	}
	if !ok {
		t.Fatal("expected prior data after a save")
	}

	if loaded.Goal != state.Goal {
		t.Errorf("goal = %+v, want %+v", loaded.Goal, state.Goal)
	}
	if loaded.LastResetDate != state.LastResetDate {
		t.Errorf("last reset = %q, want %q", loaded.LastResetDate, state.LastResetDate)
	}
	if len(loaded.TodaySessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(loaded.TodaySessions))
	}
	got := loaded.TodaySessions[0]
	if !got.StartTime.Equal(start) {
		t.Errorf("start time = %v, want %v", got.StartTime, start)
	}
	if got.EndTime == nil || !got.EndTime.Equal(end) {
		t.Errorf("end time = %v, want %v", got.EndTime, end)
	}
	if got.DurationMinutes != 50 {
		t.Errorf("duration = %d, want 50", got.DurationMinutes)
	}
}

func TestMalformedSnapshotFallsBackToDefaults(t *testing.T) {
	cases := map[string]string{
		"not json":        `{{{`,
		"wrong version":   `{"version": 99, "study_goal": {"target_hours": 2}}`,
		"bad session":     `{"version": 1, "study_goal": {"target_hours": 2}, "today_sessions": [{"start_time": "not-a-time"}]}`,
		"empty file":      ``,
		"missing version": `{"study_goal": {"target_hours": 2}}`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "state.json")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}

			store := storage.NewSnapshotStore(path)
			_, ok, err := store.LoadLedger()
			if err != nil {
				t.Fatalf("malformed data must not error, got %v", err)
			}
			if ok {
				t.Error("malformed data must be treated as no prior data")
			}
		})
	}
}

func TestSelectedCharacterSurvivesLedgerSaves(t *testing.T) {
	store := tempStore(t)

	if err := store.SaveSelectedCharacter("luna"); err != nil {
		t.Fatalf("SaveSelectedCharacter failed: %v", err)
	}

	if err := store.SaveLedger(study.State{
		Goal:          models.StudyGoal{TargetHours: 2},
		LastResetDate: "2026-09-01",
	}); err != nil {
		t.Fatalf("SaveLedger failed: %v", err)
	}

	id, ok := store.SelectedCharacter()
	if !ok || id != "luna" {
		t.Errorf("selected character = %q (%v), want luna", id, ok)
	}

	// And the other way around: a character save keeps ledger fields.
	if err := store.SaveSelectedCharacter("haku"); err != nil {
		t.Fatalf("SaveSelectedCharacter failed: %v", err)
	}
	state, ok, err := store.LoadLedger()
	if err != nil || !ok {
		t.Fatalf("LoadLedger after character save: ok=%v err=%v", ok, err)
	}
	if state.LastResetDate != "2026-09-01" {
		t.Errorf("ledger fields lost on character save: %+v", state)
	}
}

func TestSelectedCharacterMissing(t *testing.T) {
	store := tempStore(t)
	if id, ok := store.SelectedCharacter(); ok {
		t.Errorf("expected no selection, got %q", id)
	}
}

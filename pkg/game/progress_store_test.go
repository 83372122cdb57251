package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

func TestProgressStoreDegradedMode(t *testing.T) {
	ps := NewProgressStore(nil)

	if err := ps.RecordGame(4, 12, false); err != nil {
		t.Fatalf("RecordGame in degraded mode should not fail: %v", err)
	}
	rec := ps.Record()
	if rec.BestDay != 4 || rec.TotalKills != 12 || rec.Wins != 0 || rec.GamesPlayed != 1 {
		t.Errorf("Unexpected record: %+v", rec)
	}
}

func TestProgressStoreMergesResults(t *testing.T) {
	ps := NewProgressStore(nil)
	_ = ps.RecordGame(6, 10, false)
	_ = ps.RecordGame(3, 5, true)

	rec := ps.Record()
	if rec.BestDay != 6 {
		t.Errorf("BestDay should keep the maximum, got %d", rec.BestDay)
	}
	if rec.TotalKills != 15 {
		t.Errorf("TotalKills: got %d, want 15", rec.TotalKills)
	}
	if rec.Wins != 1 || rec.GamesPlayed != 2 {
		t.Errorf("Wins/GamesPlayed: got %d/%d", rec.Wins, rec.GamesPlayed)
	}
}

func TestProgressStorePersists(t *testing.T) {
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "test_zombie_defense_progress",
	})
	if err != nil {
		t.Skipf("gdata unavailable: %v", err)
	}

	ps1 := NewProgressStore(gdataManager)
	if err := ps1.RecordGame(10, 42, true); err != nil {
		t.Fatalf("RecordGame: %v", err)
	}

	ps2 := NewProgressStore(gdataManager)
	rec := ps2.Record()
	if rec.BestDay != 10 || rec.TotalKills != 42 || rec.Wins != 1 {
		t.Errorf("Reloaded record mismatch: %+v", rec)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultGameConfigIsValid(t *testing.T) {
	cfg := DefaultGameConfig()
	if err := validateGameConfig(cfg); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	// 与原版数值保持一致
	if cfg.Costs.Wall != 1 || cfg.Costs.Landmine != 5 {
		t.Errorf("costs: got wall=%d landmine=%d, want 1 and 5", cfg.Costs.Wall, cfg.Costs.Landmine)
	}
	if cfg.Spawner.InitialCount != 5 || cfg.Spawner.Multiplier != 1.2 {
		t.Errorf("spawner: got initial=%d multiplier=%v", cfg.Spawner.InitialCount, cfg.Spawner.Multiplier)
	}
	if cfg.Player.Magazine != 9 || cfg.Player.ReloadTime != 2 {
		t.Errorf("player: got magazine=%d reload=%v", cfg.Player.Magazine, cfg.Player.ReloadTime)
	}
}

func TestGridOrigin(t *testing.T) {
	g := GridConfig{Width: 20, Height: 10, CellSize: 2, CenterX: 1, CenterZ: -3}
	if got := g.OriginX(); got != -19 {
		t.Errorf("OriginX: got %v, want -19", got)
	}
	if got := g.OriginZ(); got != -13 {
		t.Errorf("OriginZ: got %v, want -13", got)
	}
}

func TestLoadGameConfig(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("partial override keeps defaults", func(t *testing.T) {
		content := `
grid:
  width: 12
spawner:
  initialCount: 2
`
		path := filepath.Join(tempDir, "partial.yaml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}

		cfg, err := LoadGameConfig(path)
		if err != nil {
			t.Fatalf("LoadGameConfig failed: %v", err)
		}
		if cfg.Grid.Width != 12 {
			t.Errorf("grid width: got %d, want 12", cfg.Grid.Width)
		}
		if cfg.Grid.Height != 20 {
			t.Errorf("grid height should keep default 20, got %d", cfg.Grid.Height)
		}
		if cfg.Spawner.InitialCount != 2 {
			t.Errorf("initialCount: got %d, want 2", cfg.Spawner.InitialCount)
		}
		if cfg.Spawner.MaxBatch != 8 {
			t.Errorf("maxBatch should keep default 8, got %d", cfg.Spawner.MaxBatch)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadGameConfig(filepath.Join(tempDir, "nope.yaml"))
		if err == nil {
			t.Fatal("Expected error for missing file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(tempDir, "bad.yaml")
		if err := os.WriteFile(path, []byte("grid: [1, 2"), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}
		if _, err := LoadGameConfig(path); err == nil {
			t.Fatal("Expected parse error")
		}
	})

	t.Run("repository config", func(t *testing.T) {
		cfg, err := LoadGameConfig(filepath.Join("..", "..", "data", "game.yaml"))
		if err != nil {
			t.Fatalf("data/game.yaml should load: %v", err)
		}
		if cfg.DaysToWin != 10 {
			t.Errorf("daysToWin: got %d, want 10", cfg.DaysToWin)
		}
	})
}

func TestParseGameConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"zero width", "grid:\n  width: 0\n", "grid size"},
		{"negative cell size", "grid:\n  cellSize: -1\n", "cellSize"},
		{"negative cost", "costs:\n  wall: -1\n", "costs"},
		{"multiplier below one", "spawner:\n  multiplier: 0.5\n", "multiplier"},
		{"inverted batch bounds", "spawner:\n  minBatch: 5\n  maxBatch: 2\n", "batch bounds"},
		{"zero magazine", "player:\n  magazine: 0\n", "magazine"},
		{"zero days", "daysToWin: 0\n", "daysToWin"},
		{"penalty below one", "nav:\n  obstaclePenalty: 0.5\n", "obstaclePenalty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGameConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("Expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

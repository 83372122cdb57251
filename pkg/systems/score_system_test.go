package systems

import (
	"testing"

	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/game"
)

func TestRoundScore(t *testing.T) {
	cfg := &config.DefaultGameConfig().Score

	tests := []struct {
		name     string
		kills    int
		damaged  bool
		duration float64
		want     int
	}{
		{"未受伤", 7, false, 10, 12},
		{"受伤且无击杀下限为0", 0, true, 30, 0},
		{"半数四舍五入", 4, true, 2.5, 5},
		{"零时长", 0, false, 0, 3},
		{"负时长不加分", 0, false, -10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundScore(cfg, tt.kills, tt.damaged, tt.duration); got != tt.want {
				t.Errorf("RoundScore(%d, %v, %v) = %d, want %d", tt.kills, tt.damaged, tt.duration, got, tt.want)
			}
		})
	}
}

// TestScoreSystemSettlesIntoPool 防守结束时得分成为下一阶段的资源
func TestScoreSystemSettlesIntoPool(t *testing.T) {
	bus := game.NewEventBus()
	scheduler := game.NewScheduler()
	phase := game.NewPhaseCoordinator(bus)
	pool := game.NewResourcePool(10)
	score := NewScoreSystem(bus, scheduler, pool, &config.DefaultGameConfig().Score)
	defer score.Close()

	if err := phase.Request(game.PhaseBuilding); err != nil {
		t.Fatal(err)
	}
	scheduler.Advance(30)
	if err := phase.Request(game.PhaseDefending); err != nil {
		t.Fatal(err)
	}
	if pool.Amount() != 0 {
		t.Fatalf("entering Defending should zero the pool, got %d", pool.Amount())
	}

	bus.Publish(game.Event{Signal: game.SignalEnemyDied, Entity: 1})
	bus.Publish(game.Event{Signal: game.SignalEnemyDied, Entity: 2})
	scheduler.Advance(5)
	bus.Publish(game.Event{Signal: game.SignalDefenseStop})

	// 3 + 2*1.5 - 5/5 = 5
	if score.LastScore() != 5 || pool.Amount() != 5 {
		t.Errorf("round 1: score=%d pool=%d, want 5/5", score.LastScore(), pool.Amount())
	}

	if err := phase.Request(game.PhaseBuilding); err != nil {
		t.Fatal(err)
	}
	if err := phase.Request(game.PhaseDefending); err != nil {
		t.Fatal(err)
	}
	if score.Kills() != 0 || score.Damaged() {
		t.Error("new round should reset kills and damaged flag")
	}

	bus.Publish(game.Event{Signal: game.SignalPlayerDamaged, Entity: 3, Amount: 10})
	for i := 0; i < 4; i++ {
		bus.Publish(game.Event{Signal: game.SignalEnemyDied, Entity: 10})
	}
	bus.Publish(game.Event{Signal: game.SignalDefenseStop})

	// -1 + 4*1.5 - 0 = 5
	if score.LastScore() != 5 {
		t.Errorf("round 2 score: got %d, want 5", score.LastScore())
	}
	if score.TotalKills() != 6 {
		t.Errorf("total kills: got %d, want 6", score.TotalKills())
	}
}

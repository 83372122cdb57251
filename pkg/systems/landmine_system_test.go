package systems

import (
	"testing"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/game"
)

// TestLandmineExplodes 敌人进入触发半径时引爆，对半径内敌人造成伤害
func TestLandmineExplodes(t *testing.T) {
	w := newTestWorld(t, 100)
	p := w.grid.TryPlace(5, 5, components.ObstacleLandmine)
	if p.Result != PlacementPlaced {
		t.Fatalf("landmine placement: %s", p.Result)
	}
	damage := NewDamageSystem(w.em, w.bus, w.grid)
	landmines := NewLandmineSystem(w.em, damage)
	died := countSignals(w.bus, game.SignalEnemyDied)

	trigger := w.spawnEnemy(t, components.Cell{X: 5, Z: 5})
	nearby := w.spawnEnemy(t, components.Cell{X: 8, Z: 5})
	far := w.spawnEnemy(t, components.Cell{X: 15, Z: 15})

	landmines.Update(0.016)

	if w.em.IsAlive(trigger) || w.em.IsAlive(nearby) {
		t.Error("enemies within the blast radius should die")
	}
	if !w.em.IsAlive(far) {
		t.Error("enemy outside the blast radius should survive")
	}
	if *died != 2 {
		t.Errorf("EnemyDied: got %d, want 2", *died)
	}
	if w.em.IsAlive(p.Entity) || w.grid.IsOccupied(5, 5) {
		t.Error("landmine should be destroyed and release its cell")
	}
}

// TestLandmineIdle 没有敌人靠近时不引爆
func TestLandmineIdle(t *testing.T) {
	w := newTestWorld(t, 100)
	p := w.grid.TryPlace(5, 5, components.ObstacleLandmine)
	damage := NewDamageSystem(w.em, w.bus, w.grid)
	landmines := NewLandmineSystem(w.em, damage)
	w.spawnEnemy(t, components.Cell{X: 7, Z: 5})

	landmines.Update(0.016)

	if !w.em.IsAlive(p.Entity) || !w.grid.IsOccupied(5, 5) {
		t.Error("landmine should stay armed")
	}
}

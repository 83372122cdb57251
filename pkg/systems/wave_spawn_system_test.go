package systems

import (
	"math/rand"
	"testing"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/game"
)

type spawnFixture struct {
	*testWorld
	spawner *WaveSpawnSystem
	damage  *DamageSystem
}

func newSpawnFixture(t *testing.T, resources int) *spawnFixture {
	t.Helper()
	w := newTestWorld(t, resources)
	return &spawnFixture{
		testWorld: w,
		spawner:   NewWaveSpawnSystem(w.em, w.bus, w.scheduler, w.grid, w.nav, w.cfg, rand.New(rand.NewSource(1))),
		damage:    NewDamageSystem(w.em, w.bus, w.grid),
	}
}

func (f *spawnFixture) aliveEnemies() []ecs.EntityID {
	return ecs.GetEntitiesWith1[*components.EnemyTagComponent](f.em)
}

func (f *spawnFixture) killAll() {
	for _, id := range f.aliveEnemies() {
		f.damage.Kill(id)
	}
}

// TestWaveQuotaProgression 第 1 波 7 个，第 2 波 ceil(7*1.2)=9 个
func TestWaveQuotaProgression(t *testing.T) {
	f := newSpawnFixture(t, 0)
	f.cfg.Spawner.MinBatch = 20
	f.cfg.Spawner.MaxBatch = 20
	f.enterDefending(t)

	if f.spawner.Wave() != 1 || f.spawner.Quota() != 7 {
		t.Fatalf("wave 1: got wave=%d quota=%d, want 1/7", f.spawner.Wave(), f.spawner.Quota())
	}

	f.spawner.Update(0.1)
	if n := len(f.aliveEnemies()); n != 7 {
		t.Fatalf("spawned: got %d, want 7", n)
	}
	if f.spawner.IsSpawning() {
		t.Error("batch larger than quota should finish spawning")
	}

	f.killAll()
	f.spawner.Update(0.1)
	if f.spawner.IsActive() {
		t.Fatal("wave should be complete after all enemies died")
	}
	if f.spawner.Quota() != 9 {
		t.Errorf("next quota: got %d, want 9", f.spawner.Quota())
	}
}

// TestWaveDefenseStopExactlyOnce 重复的死亡通知不会多次结束波次
func TestWaveDefenseStopExactlyOnce(t *testing.T) {
	f := newSpawnFixture(t, 0)
	f.cfg.Spawner.MinBatch = 20
	f.cfg.Spawner.MaxBatch = 20
	stops := countSignals(f.bus, game.SignalDefenseStop)
	f.enterDefending(t)
	f.spawner.Update(0.1)

	enemies := f.aliveEnemies()
	for i, id := range enemies {
		f.damage.Kill(id)
		f.spawner.OnEnemyDied(id) // 重复通知
		if want := len(enemies) - i - 1; f.spawner.Remaining() != want {
			t.Fatalf("after %d deaths: remaining %d, want %d", i+1, f.spawner.Remaining(), want)
		}
	}

	for i := 0; i < 5; i++ {
		f.spawner.Update(0.1)
		f.bus.Flush()
	}
	if *stops != 1 {
		t.Errorf("DefenseStop: got %d, want 1", *stops)
	}
}

// TestWaveDeathsOutsideWaveIgnored 波次未开始时的死亡通知不计数
func TestWaveDeathsOutsideWaveIgnored(t *testing.T) {
	f := newSpawnFixture(t, 0)
	f.spawner.OnEnemyDied(42)
	if f.spawner.Remaining() != 0 || f.spawner.IsActive() {
		t.Error("death before any wave should be ignored")
	}
}

// TestWaveReconcileForcesZero 敌人未发出死亡通知就消失时，核对后结束波次
func TestWaveReconcileForcesZero(t *testing.T) {
	f := newSpawnFixture(t, 0)
	f.cfg.Spawner.MinBatch = 20
	f.cfg.Spawner.MaxBatch = 20
	f.enterDefending(t)
	f.spawner.Update(0.1)

	for _, id := range f.aliveEnemies() {
		f.em.DestroyEntity(id)
	}
	f.em.RemoveMarkedEntities()

	f.spawner.Update(1)
	if !f.spawner.IsActive() {
		t.Fatal("wave should wait for the reconcile interval")
	}
	f.spawner.Update(f.cfg.Spawner.ReconcileInterval)
	if f.spawner.IsActive() || f.spawner.Remaining() != 0 {
		t.Errorf("after reconcile: active=%v remaining=%d", f.spawner.IsActive(), f.spawner.Remaining())
	}
}

// TestReconcileKeepsLiveEnemies 场上仍有敌人时不修改计数
func TestReconcileKeepsLiveEnemies(t *testing.T) {
	f := newSpawnFixture(t, 0)
	f.cfg.Spawner.MinBatch = 20
	f.cfg.Spawner.MaxBatch = 20
	f.enterDefending(t)
	f.spawner.Update(0.1)

	f.spawner.Reconcile()
	if f.spawner.Remaining() != 7 {
		t.Errorf("remaining: got %d, want 7", f.spawner.Remaining())
	}
}

// TestWaveProbeMissesResolve 边缘全部被墙占据时，所有生成都落空，波次立即结束
func TestWaveProbeMissesResolve(t *testing.T) {
	f := newSpawnFixture(t, 100)
	for i := 0; i < 20; i++ {
		f.placeWall(t, i, 0)
		f.placeWall(t, i, 19)
	}
	for i := 1; i < 19; i++ {
		f.placeWall(t, 0, i)
		f.placeWall(t, 19, i)
	}
	f.cfg.Spawner.MinBatch = 20
	f.cfg.Spawner.MaxBatch = 20
	stops := countSignals(f.bus, game.SignalDefenseStop)
	f.enterDefending(t)

	f.spawner.Update(0.1)
	f.bus.Flush()

	if n := len(f.aliveEnemies()); n != 0 {
		t.Errorf("enemies spawned on walls: %d", n)
	}
	if f.spawner.IsActive() {
		t.Error("wave with only missed probes should complete")
	}
	if *stops != 1 {
		t.Errorf("DefenseStop: got %d, want 1", *stops)
	}
}

// TestWaveBatchSize 每批数量在 [minBatch, maxBatch] 内，按间隔生成
func TestWaveBatchSize(t *testing.T) {
	f := newSpawnFixture(t, 0)
	f.cfg.Spawner.MinBatch = 2
	f.cfg.Spawner.MaxBatch = 2
	f.enterDefending(t)

	steps := []struct {
		dt   float64
		want int
	}{
		{0.1, 2},
		{0.5, 2},
		{0.5, 4},
		{1.0, 6},
		{1.0, 7},
	}
	for i, step := range steps {
		f.spawner.Update(step.dt)
		if n := len(f.aliveEnemies()); n != step.want {
			t.Fatalf("step %d: got %d enemies, want %d", i, n, step.want)
		}
	}
	if f.spawner.IsSpawning() || f.spawner.ToSpawn() != 0 {
		t.Error("quota should be exhausted")
	}
}

// TestWaveBatchRandomRange 随机批次大小不超出范围
func TestWaveBatchRandomRange(t *testing.T) {
	f := newSpawnFixture(t, 0)
	f.cfg.Spawner.MinBatch = 2
	f.cfg.Spawner.MaxBatch = 3
	f.enterDefending(t)

	f.spawner.Update(0.1)
	if n := len(f.aliveEnemies()); n < 2 || n > 3 {
		t.Errorf("first batch: got %d, want 2..3", n)
	}
}

// TestWavePostPauseNextPhase 波次结束停顿后进入选卡或建造阶段
func TestWavePostPauseNextPhase(t *testing.T) {
	tests := []struct {
		name  string
		cards bool
		want  game.Phase
	}{
		{"卡牌开启进入选卡", true, game.PhaseChooseCard},
		{"卡牌关闭直接建造", false, game.PhaseBuilding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSpawnFixture(t, 0)
			f.cfg.Cards.Enabled = tt.cards
			f.cfg.Spawner.MinBatch = 20
			f.cfg.Spawner.MaxBatch = 20
			f.enterDefending(t)

			f.spawner.Update(0.1)
			f.killAll()
			f.spawner.Update(0.1)
			f.bus.Flush()
			if !f.phase.Is(game.PhaseDefending) {
				t.Fatalf("phase changed before the pause: %s", f.phase.Phase())
			}

			f.scheduler.Advance(f.cfg.Spawner.PostWavePause)
			f.bus.Flush()
			if f.phase.Phase() != tt.want {
				t.Errorf("phase: got %s, want %s", f.phase.Phase(), tt.want)
			}
		})
	}
}

// TestWaveSpawnerClose 关闭后不再响应阶段变化
func TestWaveSpawnerClose(t *testing.T) {
	f := newSpawnFixture(t, 0)
	f.spawner.Close()
	f.enterDefending(t)
	if f.spawner.IsActive() {
		t.Error("closed spawner should not start a wave")
	}
}

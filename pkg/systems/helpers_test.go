package systems

import (
	"testing"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/entities"
	"github.com/decker502/zombie-defense/pkg/game"
)

// testWorld 测试用的最小世界：20x20 网格，原点 (-10,-10)，处于 Building 阶段
type testWorld struct {
	cfg       *config.GameConfig
	em        *ecs.EntityManager
	bus       *game.EventBus
	phase     *game.PhaseCoordinator
	scheduler *game.Scheduler
	pool      *game.ResourcePool
	grid      *GridSystem
	nav       *NavMeshSystem
}

func newTestWorld(t *testing.T, resources int) *testWorld {
	t.Helper()

	cfg := config.DefaultGameConfig()
	em := ecs.NewEntityManager()
	bus := game.NewEventBus()
	phase := game.NewPhaseCoordinator(bus)
	pool := game.NewResourcePool(resources)

	grid, err := NewGridSystem(em, cfg, pool, phase)
	if err != nil {
		t.Fatalf("NewGridSystem failed: %v", err)
	}
	nav := NewNavMeshSystem(grid)
	phase.OnBeforeEnter(game.PhaseDefending, nav.Rebuild)

	if err := phase.Request(game.PhaseBuilding); err != nil {
		t.Fatalf("failed to enter Building: %v", err)
	}

	return &testWorld{
		cfg:       cfg,
		em:        em,
		bus:       bus,
		phase:     phase,
		scheduler: game.NewScheduler(),
		pool:      pool,
		grid:      grid,
		nav:       nav,
	}
}

// enterDefending 切换到 Defending（触发导航网格重建和 PhaseChanged）
func (w *testWorld) enterDefending(t *testing.T) {
	t.Helper()
	if err := w.phase.Request(game.PhaseDefending); err != nil {
		t.Fatalf("failed to enter Defending: %v", err)
	}
}

// placeWall 放置墙，失败时终止测试
func (w *testWorld) placeWall(t *testing.T, x, z int) ecs.EntityID {
	t.Helper()
	p := w.grid.TryPlace(x, z, components.ObstacleWall)
	if p.Result != PlacementPlaced {
		t.Fatalf("placing wall at (%d, %d): got %s", x, z, p.Result)
	}
	return p.Entity
}

// encloseCell 用 4 面墙围住格子
func (w *testWorld) encloseCell(t *testing.T, x, z int) []ecs.EntityID {
	t.Helper()
	return []ecs.EntityID{
		w.placeWall(t, x-1, z),
		w.placeWall(t, x+1, z),
		w.placeWall(t, x, z-1),
		w.placeWall(t, x, z+1),
	}
}

// spawnPlayer 在格子中心创建玩家
func (w *testWorld) spawnPlayer(t *testing.T, cell components.Cell) ecs.EntityID {
	t.Helper()
	x, z := w.grid.CellCenter(cell)
	id, err := entities.NewPlayerEntity(w.em, w.cfg, x, z)
	if err != nil {
		t.Fatalf("NewPlayerEntity failed: %v", err)
	}
	return id
}

// spawnEnemy 在格子中心创建敌人
func (w *testWorld) spawnEnemy(t *testing.T, cell components.Cell) ecs.EntityID {
	t.Helper()
	x, z := w.grid.CellCenter(cell)
	id, err := entities.NewEnemyEntity(w.em, w.cfg, x, z)
	if err != nil {
		t.Fatalf("NewEnemyEntity failed: %v", err)
	}
	return id
}

// countSignals 统计总线上某信号的同步投递次数
func countSignals(bus *game.EventBus, signal game.Signal) *int {
	n := new(int)
	bus.Subscribe(signal, func(game.Event) { *n++ })
	return n
}

func enemyOf(t *testing.T, em *ecs.EntityManager, id ecs.EntityID) *components.EnemyComponent {
	t.Helper()
	enemy, ok := ecs.GetComponent[*components.EnemyComponent](em, id)
	if !ok {
		t.Fatalf("entity %d has no EnemyComponent", id)
	}
	return enemy
}

func healthOf(t *testing.T, em *ecs.EntityManager, id ecs.EntityID) *components.HealthComponent {
	t.Helper()
	health, ok := ecs.GetComponent[*components.HealthComponent](em, id)
	if !ok {
		t.Fatalf("entity %d has no HealthComponent", id)
	}
	return health
}

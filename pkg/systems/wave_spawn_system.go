package systems

import (
	"log"
	"math"
	"math/rand"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/entities"
	"github.com/decker502/zombie-defense/pkg/game"
)

// WaveSpawnSystem 波次生成系统
//
// 职责：
//   - 进入 Defending 时开始一波：按 batchInterval 生成随机大小的批次，直到配额用完
//   - 在网格边缘随机选点生成敌人，落点不可通行时跳过（计为已结束）
//   - 每个敌人死亡通知只计数一次（按实体ID去重）
//   - 生成结束后定期核对计数与场上实际敌人，计数卡住时强制归零
//   - 剩余数归零时发出一次 DefenseStop，停顿后进入选卡或下一个建造阶段
//
// 架构说明：
//   - 订阅 PhaseChanged（进入 Defending）和 EnemyDied
//   - 阶段信号通过 Post 延迟投递，tick 末尾统一生效
//   - 停顿通过 Scheduler 实现，所有任务以系统自身为 owner，Close 时取消
//
// 配额：第 1 波为 initialCount + 1*2；每波结束后 quota = ceil(quota * multiplier)
type WaveSpawnSystem struct {
	entityManager *ecs.EntityManager
	bus           *game.EventBus
	scheduler     *game.Scheduler
	grid          *GridSystem
	nav           *NavMeshSystem
	config        *config.GameConfig
	rng           *rand.Rand

	wave      int
	quota     int
	toSpawn   int // 本波尚未生成的数量
	remaining int // 本波尚未结束的数量（未生成 + 存活）
	active    bool
	spawning  bool

	batchTimer     float64
	reconcileTimer float64
	counted        map[ecs.EntityID]bool

	subs []game.Subscription
}

// NewWaveSpawnSystem 创建波次生成系统
//
// 参数：
//
//	em - 实体管理器
//	bus - 事件总线
//	scheduler - 协作调度器（波次结束后的停顿）
//	grid, nav - 生成点校验
//	cfg - 游戏配置（生成参数和敌人属性）
//	rng - 随机数源（测试中固定种子）
func NewWaveSpawnSystem(em *ecs.EntityManager, bus *game.EventBus, scheduler *game.Scheduler, grid *GridSystem, nav *NavMeshSystem, cfg *config.GameConfig, rng *rand.Rand) *WaveSpawnSystem {
	s := &WaveSpawnSystem{
		entityManager: em,
		bus:           bus,
		scheduler:     scheduler,
		grid:          grid,
		nav:           nav,
		config:        cfg,
		rng:           rng,
		quota:         cfg.Spawner.InitialCount + 1*2,
		counted:       make(map[ecs.EntityID]bool),
	}

	s.subs = append(s.subs,
		bus.Subscribe(game.SignalPhaseChanged, func(ev game.Event) {
			if ev.Entered(game.PhaseDefending) {
				s.StartWave()
			}
		}),
		bus.Subscribe(game.SignalEnemyDied, func(ev game.Event) {
			s.OnEnemyDied(ev.Entity)
		}),
	)
	return s
}

// Close 取消订阅和所有待执行任务
func (s *WaveSpawnSystem) Close() {
	for _, sub := range s.subs {
		s.bus.Unsubscribe(sub)
	}
	s.subs = nil
	s.scheduler.CancelOwner(s)
}

// StartWave 开始下一波
func (s *WaveSpawnSystem) StartWave() {
	s.wave++
	s.toSpawn = s.quota
	s.remaining = s.quota
	s.active = true
	s.spawning = s.quota > 0
	s.batchTimer = 0
	s.reconcileTimer = 0
	s.counted = make(map[ecs.EntityID]bool)

	log.Printf("[WaveSpawnSystem] Wave %d started, quota %d", s.wave, s.quota)
}

// Update 推进批次计时和核对计时
func (s *WaveSpawnSystem) Update(dt float64) {
	if !s.active {
		return
	}

	if s.spawning {
		s.batchTimer -= dt
		if s.batchTimer <= 0 {
			s.spawnBatch()
			s.batchTimer += s.config.Spawner.BatchInterval
		}
	} else {
		s.reconcileTimer += dt
		if s.reconcileTimer >= s.config.Spawner.ReconcileInterval {
			s.reconcileTimer = 0
			s.Reconcile()
		}
	}

	s.checkComplete()
}

// spawnBatch 生成一批敌人，数量在 [minBatch, maxBatch] 内且不超过剩余配额
func (s *WaveSpawnSystem) spawnBatch() {
	sp := s.config.Spawner
	n := sp.MinBatch
	if sp.MaxBatch > sp.MinBatch {
		n += s.rng.Intn(sp.MaxBatch - sp.MinBatch + 1)
	}
	if n > s.toSpawn {
		n = s.toSpawn
	}

	spawned := 0
	for i := 0; i < n; i++ {
		s.toSpawn--
		x, z, ok := s.probeSpawnPoint()
		if !ok {
			s.resolveOne()
			log.Printf("[WaveSpawnSystem] Spawn probe missed at (%.2f, %.2f), skipping", x, z)
			continue
		}
		if _, err := entities.NewEnemyEntity(s.entityManager, s.config, x, z); err != nil {
			s.resolveOne()
			log.Printf("[WaveSpawnSystem] Warning: failed to create enemy: %v", err)
			continue
		}
		spawned++
	}

	if s.toSpawn == 0 {
		s.spawning = false
	}
	log.Printf("[WaveSpawnSystem] Wave %d batch: %d spawned, %d left to spawn, %d remaining", s.wave, spawned, s.toSpawn, s.remaining)
}

// probeSpawnPoint 在网格四条边之一上均匀选点，返回点是否落在可通行格子上
func (s *WaveSpawnSystem) probeSpawnPoint() (x, z float64, ok bool) {
	g := s.config.Grid
	width := float64(g.Width) * g.CellSize
	height := float64(g.Height) * g.CellSize
	inset := g.CellSize * 0.5
	t := s.rng.Float64()

	switch s.rng.Intn(4) {
	case 0: // 下
		x, z = g.OriginX()+t*width, g.OriginZ()+inset
	case 1: // 上
		x, z = g.OriginX()+t*width, g.OriginZ()+height-inset
	case 2: // 左
		x, z = g.OriginX()+inset, g.OriginZ()+t*height
	default: // 右
		x, z = g.OriginX()+width-inset, g.OriginZ()+t*height
	}

	cell, inBounds := s.grid.WorldToCell(x, z)
	if !inBounds || !s.nav.IsWalkable(cell) {
		return x, z, false
	}
	return x, z, true
}

// OnEnemyDied 处理敌人死亡通知，同一实体只计数一次
func (s *WaveSpawnSystem) OnEnemyDied(id ecs.EntityID) {
	if !s.active || s.counted[id] {
		return
	}
	s.counted[id] = true
	s.resolveOne()
}

func (s *WaveSpawnSystem) resolveOne() {
	if s.remaining > 0 {
		s.remaining--
	}
}

// Reconcile 核对计数：计数大于 0 但场上没有存活敌人时强制归零
// 只在本波生成结束后有意义
func (s *WaveSpawnSystem) Reconcile() {
	if !s.active || s.spawning || s.remaining == 0 {
		return
	}
	alive := len(ecs.GetEntitiesWith1[*components.EnemyTagComponent](s.entityManager))
	if alive == 0 {
		log.Printf("[WaveSpawnSystem] Warning: remaining=%d but no enemies alive, forcing to 0", s.remaining)
		s.remaining = 0
	}
}

// checkComplete 剩余数归零时结束本波
func (s *WaveSpawnSystem) checkComplete() {
	if !s.active || s.spawning || s.remaining > 0 {
		return
	}
	s.active = false
	finished := s.wave
	s.quota = int(math.Ceil(float64(s.quota) * s.config.Spawner.Multiplier))

	log.Printf("[WaveSpawnSystem] Wave %d complete, next quota %d", finished, s.quota)
	s.bus.Post(game.Event{Signal: game.SignalDefenseStop})

	s.scheduler.After(s, s.config.Spawner.PostWavePause, func() {
		if s.config.Cards.Enabled {
			s.bus.Post(game.Event{Signal: game.SignalChooseCard})
		} else {
			s.bus.Post(game.Event{Signal: game.SignalBuildStart})
		}
	})
}

// Wave 当前（或最近一次）波次编号，从 1 开始
func (s *WaveSpawnSystem) Wave() int { return s.wave }

// Quota 当前波次（进行中）或下一波（已结束）的配额
func (s *WaveSpawnSystem) Quota() int { return s.quota }

// Remaining 本波尚未结束的敌人数量
func (s *WaveSpawnSystem) Remaining() int { return s.remaining }

// ToSpawn 本波尚未生成的敌人数量
func (s *WaveSpawnSystem) ToSpawn() int { return s.toSpawn }

// IsActive 是否有进行中的波次
func (s *WaveSpawnSystem) IsActive() bool { return s.active }

// IsSpawning 本波是否仍在生成
func (s *WaveSpawnSystem) IsSpawning() bool { return s.spawning }

// Package session 组装一局游戏：实体管理器、事件总线、阶段协调器、调度器和所有系统
//
// Session 每局创建一次，Close 时拆除所有订阅和待执行任务。
// 所有状态都属于 Session，没有包级可变状态。
package session

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/entities"
	"github.com/decker502/zombie-defense/pkg/game"
	"github.com/decker502/zombie-defense/pkg/systems"
)

// Options 创建 Session 的参数
type Options struct {
	// Config 游戏配置，Session 持有其副本（卡牌效果修改副本，不影响调用方）
	// 为 nil 时使用 config.DefaultGameConfig()
	Config *config.GameConfig

	// Deck 卡组，为 nil 时使用 config.DefaultCardDeck()
	Deck *config.CardDeckConfig

	// Progress 进度存储，为 nil 时不记录进度
	Progress *game.ProgressStore

	// Rand 随机数源，为 nil 时使用固定种子 1
	Rand *rand.Rand
}

// Session 一局游戏
type Session struct {
	config *config.GameConfig

	entityManager *ecs.EntityManager
	bus           *game.EventBus
	phase         *game.PhaseCoordinator
	scheduler     *game.Scheduler
	pool          *game.ResourcePool

	grid        *systems.GridSystem
	nav         *systems.NavMeshSystem
	bestPath    *systems.BestPathSystem
	damage      *systems.DamageSystem
	ai          *systems.EnemyAISystem
	movement    *systems.MovementSystem
	player      *systems.PlayerSystem
	projectiles *systems.ProjectileSystem
	landmines   *systems.LandmineSystem
	spawner     *systems.WaveSpawnSystem
	buildTimer  *systems.BuildTimerSystem
	score       *systems.ScoreSystem
	cards       *systems.CardSystem
	days        *systems.DayTrackerSystem

	playerID      ecs.EntityID
	placementKind components.ObstacleKind
	finished      bool
	closed        bool
	subs          []game.Subscription
}

// New 创建一局新游戏，初始阶段为 MainMenu
func New(opts Options) (*Session, error) {
	cfg := config.DefaultGameConfig()
	if opts.Config != nil {
		copied := *opts.Config
		cfg = &copied
	}
	deck := opts.Deck
	if deck == nil {
		deck = config.DefaultCardDeck()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	s := &Session{
		config:        cfg,
		entityManager: ecs.NewEntityManager(),
		bus:           game.NewEventBus(),
		scheduler:     game.NewScheduler(),
		pool:          game.NewResourcePool(cfg.StartingResources),
		placementKind: components.ObstacleWall,
	}

	// 协调器最先订阅：同一信号上它的处理函数先于其他系统执行
	s.phase = game.NewPhaseCoordinator(s.bus)

	grid, err := systems.NewGridSystem(s.entityManager, cfg, s.pool, s.phase)
	if err != nil {
		return nil, fmt.Errorf("failed to create grid: %w", err)
	}
	s.grid = grid
	s.nav = systems.NewNavMeshSystem(grid)
	s.phase.OnBeforeEnter(game.PhaseDefending, s.nav.Rebuild)

	px, pz := grid.CellCenter(components.Cell{X: cfg.Grid.Width / 2, Z: cfg.Grid.Height / 2})
	s.playerID, err = entities.NewPlayerEntity(s.entityManager, cfg, px, pz)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	s.bestPath = systems.NewBestPathSystem(s.entityManager, s.bus, grid, cfg.Nav.ObstaclePenalty)
	s.damage = systems.NewDamageSystem(s.entityManager, s.bus, grid)
	s.ai = systems.NewEnemyAISystem(s.entityManager, s.phase, grid, s.nav, s.bestPath, s.damage, &cfg.Enemy)
	s.movement = systems.NewMovementSystem(s.entityManager, grid)
	s.player = systems.NewPlayerSystem(s.entityManager, s.phase, grid, &cfg.Player)
	s.projectiles = systems.NewProjectileSystem(s.entityManager, grid, s.damage)
	s.player.UseNavMesh(s.nav)
	s.projectiles.UseNavMesh(s.nav)
	s.landmines = systems.NewLandmineSystem(s.entityManager, s.damage)
	s.spawner = systems.NewWaveSpawnSystem(s.entityManager, s.bus, s.scheduler, grid, s.nav, cfg, rng)
	s.buildTimer = systems.NewBuildTimerSystem(s.bus, s.scheduler, s.phase, &cfg.Build)
	s.score = systems.NewScoreSystem(s.bus, s.scheduler, s.pool, &cfg.Score)
	s.cards = systems.NewCardSystem(s.entityManager, s.bus, s.phase, cfg, deck, s.damage, s.pool, rng)
	s.days = systems.NewDayTrackerSystem(s.bus, opts.Progress, cfg.DaysToWin)

	s.subs = append(s.subs,
		s.bus.Subscribe(game.SignalVictory, func(game.Event) { s.finished = true }),
		s.bus.Subscribe(game.SignalGameOver, func(game.Event) { s.finished = true }),
	)

	log.Printf("[Session] Created %dx%d session, %d starting resources", cfg.Grid.Width, cfg.Grid.Height, cfg.StartingResources)
	return s, nil
}

// Start 从主菜单进入第一个建造阶段（立即生效）
func (s *Session) Start() error {
	if !s.phase.Is(game.PhaseMainMenu) {
		return fmt.Errorf("start while %s: %w", s.phase.Phase(), game.ErrIllegalTransition)
	}
	s.bus.Post(game.Event{Signal: game.SignalBuildStart})
	s.bus.Flush()
	return nil
}

// Tick 推进一帧
//
// 顺序：调度器 -> 玩家输入 -> AI -> 移动 -> 子弹 -> 地雷 -> 生成 -> 计时
// -> 投递延迟信号 -> 导航网格重建（Defending）-> 清理删除的实体
//
// 暂停时只投递信号，不推进任何计时
func (s *Session) Tick(dt float64) {
	if s.closed || s.finished {
		return
	}

	if !s.phase.Is(game.PhasePaused) {
		s.scheduler.Advance(dt)
		s.player.Update(dt)
		s.ai.Update(dt)
		s.movement.Update(dt)
		s.projectiles.Update(dt)
		s.landmines.Update(dt)
		s.spawner.Update(dt)
		s.buildTimer.Update(dt)
	}

	s.bus.Flush()
	if s.phase.Is(game.PhaseDefending) {
		s.nav.Flush()
	}
	s.entityManager.RemoveMarkedEntities()
}

// Place 在格子上放置当前类型的障碍物
func (s *Session) Place(cellX, cellZ int) systems.Placement {
	return s.grid.TryPlace(cellX, cellZ, s.placementKind)
}

// PreviewPlacement 不执行放置，只返回如果放置会得到的结果
func (s *Session) PreviewPlacement(cellX, cellZ int) systems.PlacementResult {
	return s.grid.Check(cellX, cellZ, s.placementKind)
}

// TogglePlacementKind 在墙和地雷之间切换
func (s *Session) TogglePlacementKind() components.ObstacleKind {
	if s.placementKind == components.ObstacleWall {
		s.placementKind = components.ObstacleLandmine
	} else {
		s.placementKind = components.ObstacleWall
	}
	return s.placementKind
}

// PlacementKind 当前放置类型
func (s *Session) PlacementKind() components.ObstacleKind {
	return s.placementKind
}

// SkipBuild 请求提前结束建造阶段
func (s *Session) SkipBuild() {
	s.bus.Publish(game.Event{Signal: game.SignalBuildSkip})
}

// Pause 暂停
func (s *Session) Pause() {
	s.bus.Publish(game.Event{Signal: game.SignalPaused})
}

// Resume 从暂停恢复
func (s *Session) Resume() {
	s.bus.Publish(game.Event{Signal: game.SignalUnpaused})
}

// ChooseCard 选择当前手牌中的一张
func (s *Session) ChooseCard(index int) (config.CardDef, error) {
	return s.cards.Choose(index)
}

// MovePlayer 设置本帧的玩家移动输入
func (s *Session) MovePlayer(dx, dz float64) {
	s.player.Move(dx, dz)
}

// Fire 玩家朝指定方向射击
func (s *Session) Fire(dirX, dirZ float64) bool {
	return s.player.Fire(dirX, dirZ)
}

// Reload 玩家手动换弹
func (s *Session) Reload() {
	s.player.Reload()
}

// Close 结束本局：取消所有订阅和待执行任务
// 重复调用为空操作
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true

	s.days.Close()
	s.cards.Close()
	s.score.Close()
	s.buildTimer.Close()
	s.spawner.Close()
	s.bestPath.Close()
	s.phase.Close()
	for _, sub := range s.subs {
		s.bus.Unsubscribe(sub)
	}
	s.subs = nil

	s.scheduler.Clear()
	s.bus.Close()
	log.Printf("[Session] Closed")
}

// Phase 当前阶段
func (s *Session) Phase() game.Phase { return s.phase.Phase() }

// Resources 当前资源
func (s *Session) Resources() int { return s.pool.Amount() }

// Day 当前天数
func (s *Session) Day() int { return s.days.Day() }

// IsFinished 本局是否已结束（胜利或失败）
func (s *Session) IsFinished() bool { return s.finished }

// Won 是否胜利
func (s *Session) Won() bool { return s.days.Won() }

// PlayerID 玩家实体
func (s *Session) PlayerID() ecs.EntityID { return s.playerID }

// Hand 当前手牌
func (s *Session) Hand() []config.CardDef { return s.cards.Hand() }

// BuildTimeRemaining 建造倒计时剩余秒数
func (s *Session) BuildTimeRemaining() float64 { return s.buildTimer.Remaining() }

// Config 本局使用的配置副本
func (s *Session) Config() *config.GameConfig { return s.config }

// EntityManager 实体管理器（渲染和测试只读访问）
func (s *Session) EntityManager() *ecs.EntityManager { return s.entityManager }

// Bus 事件总线
func (s *Session) Bus() *game.EventBus { return s.bus }

// Grid 网格系统
func (s *Session) Grid() *systems.GridSystem { return s.grid }

// NavMesh 导航网格
func (s *Session) NavMesh() *systems.NavMeshSystem { return s.nav }

// Spawner 波次生成系统
func (s *Session) Spawner() *systems.WaveSpawnSystem { return s.spawner }

// Score 得分系统
func (s *Session) Score() *systems.ScoreSystem { return s.score }

// Damage 伤害系统
func (s *Session) Damage() *systems.DamageSystem { return s.damage }

// PausedPhase 暂停前的阶段（仅在 Paused 时有意义）
func (s *Session) PausedPhase() game.Phase { return s.phase.Interrupted() }

package systems

import (
	"log"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/game"
	"github.com/decker502/zombie-defense/pkg/utils"
)

// stuckEpsilon 一帧内移动距离低于此值视为没有进展
const stuckEpsilon = 1e-3

// chaseStopFactor 追击玩家时在攻击距离的该比例处停下
const chaseStopFactor = 0.8

// aiLogFrameInterval 状态统计日志输出间隔（每N帧输出一次）
const aiLogFrameInterval = 100

// EnemyAISystem 近战敌人的状态机
//
// 职责：
//   - 每个敌人每帧只评估一次当前状态
//   - 有到玩家的完整路径时追击玩家，否则寻找并摧毁阻挡路线的墙
//   - 障碍物目标是弱引用，每次使用前校验存活，失效时回到 CheckPath
//   - 攻击冷却对玩家和障碍物共享
//
// 状态转换：
//
//	CheckPath      -> ChasePlayer（有路径）| FindObstacle（无路径）
//	ChasePlayer    -> AttackPlayer（进入攻击距离且冷却完毕）| CheckPath（路径失效）
//	AttackPlayer   -> ChasePlayer（离开攻击距离）
//	FindObstacle   -> MoveToObstacle（找到目标）| CheckPath（没有目标）
//	MoveToObstacle -> AttackObstacle（进入攻击距离）| ChasePlayer（路径打通）
//	                  | FindObstacle（卡住）| CheckPath（目标失效）
//	AttackObstacle -> CheckPath（目标死亡或失效）| MoveToObstacle（离开攻击距离）
//
// 只在 Defending 阶段运行
type EnemyAISystem struct {
	entityManager *ecs.EntityManager
	phase         *game.PhaseCoordinator
	grid          *GridSystem
	nav           *NavMeshSystem
	bestPath      *BestPathSystem
	damage        *DamageSystem
	config        *config.EnemyConfig

	logFrameCounter int
}

// NewEnemyAISystem 创建敌人 AI 系统
//
// 参数:
//   - em: 实体管理器
//   - phase: 阶段协调器，为 nil 时总是运行
//   - grid, nav, bestPath: 寻路相关系统
//   - damage: 伤害系统
//   - cfg: 敌人属性与 AI 参数（指针，卡牌等修改即时生效）
func NewEnemyAISystem(em *ecs.EntityManager, phase *game.PhaseCoordinator, grid *GridSystem, nav *NavMeshSystem, bestPath *BestPathSystem, damage *DamageSystem, cfg *config.EnemyConfig) *EnemyAISystem {
	return &EnemyAISystem{
		entityManager: em,
		phase:         phase,
		grid:          grid,
		nav:           nav,
		bestPath:      bestPath,
		damage:        damage,
		config:        cfg,
	}
}

// enemyView 单个敌人在一次评估中用到的组件
type enemyView struct {
	id    ecs.EntityID
	enemy *components.EnemyComponent
	pos   *components.PositionComponent
	agent *components.NavAgentComponent
}

// playerView 玩家位置快照
type playerView struct {
	id   ecs.EntityID
	x, z float64
	cell components.Cell
}

// Update 评估所有敌人的状态机
func (s *EnemyAISystem) Update(dt float64) {
	if s.phase != nil && !s.phase.Is(game.PhaseDefending) {
		return
	}

	playerID, playerPos, ok := findPlayer(s.entityManager)
	if !ok {
		return
	}
	playerCell, _ := s.grid.WorldToCell(playerPos.X, playerPos.Z)
	player := playerView{id: playerID, x: playerPos.X, z: playerPos.Z, cell: playerCell}

	enemies := ecs.GetEntitiesWith3[*components.EnemyComponent, *components.PositionComponent, *components.NavAgentComponent](s.entityManager)
	s.logFrameCounter++
	logThisFrame := len(enemies) > 0 && s.logFrameCounter%aiLogFrameInterval == 1
	var counts map[components.EnemyState]int
	if logThisFrame {
		counts = make(map[components.EnemyState]int)
	}

	for _, id := range enemies {
		v := enemyView{id: id}
		v.enemy, _ = ecs.GetComponent[*components.EnemyComponent](s.entityManager, id)
		v.pos, _ = ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		v.agent, _ = ecs.GetComponent[*components.NavAgentComponent](s.entityManager, id)

		if v.enemy.AttackCooldown > 0 {
			v.enemy.AttackCooldown -= dt
			if v.enemy.AttackCooldown < 0 {
				v.enemy.AttackCooldown = 0
			}
		}
		s.step(v, player, dt)
		if logThisFrame {
			counts[v.enemy.State]++
		}
	}

	if logThisFrame {
		log.Printf("[EnemyAISystem] %d enemies: chase=%d attackPlayer=%d seek=%d attackObstacle=%d",
			len(enemies),
			counts[components.EnemyChasePlayer]+counts[components.EnemyCheckPath],
			counts[components.EnemyAttackPlayer],
			counts[components.EnemyFindObstacle]+counts[components.EnemyMoveToObstacle],
			counts[components.EnemyAttackObstacle])
	}
}

// step 执行一次状态评估
func (s *EnemyAISystem) step(v enemyView, player playerView, dt float64) {
	switch v.enemy.State {
	case components.EnemyCheckPath:
		s.checkPath(v, player)
	case components.EnemyChasePlayer:
		s.chasePlayer(v, player)
	case components.EnemyAttackPlayer:
		s.attackPlayer(v, player)
	case components.EnemyFindObstacle:
		s.findObstacle(v)
	case components.EnemyMoveToObstacle:
		s.moveToObstacle(v, player, dt)
	case components.EnemyAttackObstacle:
		s.attackObstacle(v)
	default:
		log.Printf("[EnemyAISystem] Warning: enemy %d in unknown state %d, resetting", v.id, v.enemy.State)
		s.setState(v, components.EnemyCheckPath)
	}
}

func (s *EnemyAISystem) checkPath(v enemyView, player playerView) {
	if s.routeToPlayer(v, player) {
		s.setState(v, components.EnemyChasePlayer)
		return
	}
	v.agent.Stop()
	s.setState(v, components.EnemyFindObstacle)
}

func (s *EnemyAISystem) chasePlayer(v enemyView, player playerView) {
	if s.distanceTo(v, player.x, player.z) <= s.config.AttackRange {
		v.agent.Stop()
		if v.enemy.AttackCooldown <= 0 {
			s.hitPlayer(v, player)
			s.setState(v, components.EnemyAttackPlayer)
		}
		return
	}

	moved := utils.Distance(player.x, player.z, v.enemy.ChaseX, v.enemy.ChaseZ)
	if moved <= s.config.DestinationThreshold && v.enemy.NavVersion == s.nav.Version() && (len(v.agent.Path) > 0 || v.agent.HasDest) {
		return
	}
	if !s.routeToPlayer(v, player) {
		v.agent.Stop()
		s.setState(v, components.EnemyCheckPath)
	}
}

func (s *EnemyAISystem) attackPlayer(v enemyView, player playerView) {
	if s.distanceTo(v, player.x, player.z) > s.config.AttackRange {
		v.enemy.NavVersion = -1
		s.setState(v, components.EnemyChasePlayer)
		return
	}
	if v.enemy.AttackCooldown <= 0 {
		s.hitPlayer(v, player)
	}
}

func (s *EnemyAISystem) findObstacle(v enemyView) {
	target, ok := ecs.EntityID(0), false
	if s.bestPath != nil {
		target, ok = s.bestPath.NearestBestPathObstacle(v.pos.X, v.pos.Z, v.enemy.Abandoned)
	}
	if !ok {
		target, ok = nearestObstacle(s.entityManager, v.pos.X, v.pos.Z, s.config.ObstacleSearchRadius, v.enemy.Abandoned, false)
	}
	if !ok {
		v.enemy.Abandoned = 0
		s.setState(v, components.EnemyCheckPath)
		return
	}

	obstacle, _ := ecs.GetComponent[*components.ObstacleComponent](s.entityManager, target)
	from := s.enemyCell(v)
	approach, ok := s.nav.SampleReachable(from, obstacle.Cell, s.config.ObstacleSampleRadius)
	if !ok {
		v.enemy.Abandoned = target
		s.setState(v, components.EnemyCheckPath)
		return
	}

	path, _ := s.nav.FindPath(from, approach)
	ax, az := s.grid.CellCenter(approach)
	setDestination(v.agent, path, ax, az, 0)
	v.enemy.Target = target
	v.enemy.StuckTime = 0
	v.enemy.RecheckTime = 0
	s.setState(v, components.EnemyMoveToObstacle)
}

func (s *EnemyAISystem) moveToObstacle(v enemyView, player playerView, dt float64) {
	target, ok := s.validTarget(v.enemy.Target)
	if !ok {
		s.loseTarget(v)
		return
	}

	if s.distanceTo(v, target.X, target.Z) <= s.config.AttackRange {
		v.agent.Stop()
		s.setState(v, components.EnemyAttackObstacle)
		return
	}

	v.enemy.RecheckTime += dt
	if v.enemy.RecheckTime >= s.config.PathRecheckCooldown {
		v.enemy.RecheckTime = 0
		if s.routeToPlayer(v, player) {
			v.enemy.Target = 0
			s.setState(v, components.EnemyChasePlayer)
			return
		}
	}

	if v.agent.Moved < stuckEpsilon {
		v.enemy.StuckTime += dt
	} else {
		v.enemy.StuckTime = 0
	}
	if v.enemy.StuckTime >= s.config.StuckThreshold {
		log.Printf("[EnemyAISystem] Enemy %d stuck for %.1fs, abandoning obstacle %d", v.id, v.enemy.StuckTime, v.enemy.Target)
		v.enemy.Abandoned = v.enemy.Target
		v.enemy.Target = 0
		v.enemy.StuckTime = 0
		v.agent.Stop()
		s.setState(v, components.EnemyFindObstacle)
	}
}

func (s *EnemyAISystem) attackObstacle(v enemyView) {
	target, ok := s.validTarget(v.enemy.Target)
	if !ok {
		s.loseTarget(v)
		return
	}
	if s.distanceTo(v, target.X, target.Z) > s.config.AttackRange {
		s.setState(v, components.EnemyMoveToObstacle)
		return
	}
	if v.enemy.AttackCooldown > 0 {
		return
	}

	v.enemy.AttackCooldown = s.config.AttackCooldown
	if s.damage.Apply(v.enemy.Target, s.config.AttackDamage) {
		v.enemy.Target = 0
		v.enemy.Abandoned = 0
		s.setState(v, components.EnemyCheckPath)
	}
}

// routeToPlayer 计算到玩家的路径并下发目的地
func (s *EnemyAISystem) routeToPlayer(v enemyView, player playerView) bool {
	path, ok := s.nav.FindPath(s.enemyCell(v), player.cell)
	if !ok {
		return false
	}
	setDestination(v.agent, path, player.x, player.z, s.config.AttackRange*chaseStopFactor)
	v.enemy.ChaseX, v.enemy.ChaseZ = player.x, player.z
	v.enemy.NavVersion = s.nav.Version()
	return true
}

func (s *EnemyAISystem) hitPlayer(v enemyView, player playerView) {
	v.enemy.AttackCooldown = s.config.AttackCooldown
	s.damage.Apply(player.id, s.config.AttackDamage)
}

// validTarget 解析障碍物弱引用：实体存活且生命值大于 0
func (s *EnemyAISystem) validTarget(id ecs.EntityID) (*components.PositionComponent, bool) {
	if !s.entityManager.IsAlive(id) {
		return nil, false
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
	if !ok || !health.IsAlive() {
		return nil, false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	return pos, ok
}

func (s *EnemyAISystem) loseTarget(v enemyView) {
	v.enemy.Target = 0
	v.agent.Stop()
	s.setState(v, components.EnemyCheckPath)
}

func (s *EnemyAISystem) setState(v enemyView, next components.EnemyState) {
	v.enemy.State = next
}

func (s *EnemyAISystem) enemyCell(v enemyView) components.Cell {
	cell, _ := s.grid.WorldToCell(v.pos.X, v.pos.Z)
	return cell
}

func (s *EnemyAISystem) distanceTo(v enemyView, x, z float64) float64 {
	return utils.Distance(v.pos.X, v.pos.Z, x, z)
}

// setDestination 下发路径和最终目标点
func setDestination(agent *components.NavAgentComponent, path []components.Cell, x, z, stop float64) {
	agent.Path = path
	agent.DestX, agent.DestZ = x, z
	agent.HasDest = true
	agent.StopDistance = stop
}

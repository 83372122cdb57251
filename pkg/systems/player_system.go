package systems

import (
	"log"
	"math"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/entities"
	"github.com/decker502/zombie-defense/pkg/game"
)

// PlayerSystem 玩家移动、射击与换弹
//
// 输入每帧由 Session 写入（MovePlayer/Fire），Update 中消费：
//   - 移动：按 Speed*dt 推进，墙格子和网格边界阻挡（X、Z 轴分别检测，可贴墙滑动）
//     Defending 阶段读烘焙的导航网格，与敌人在同一 tick 看到相同的占用
//   - 射击：只在 Defending 阶段有效；弹匣打空后自动换弹
type PlayerSystem struct {
	entityManager *ecs.EntityManager
	phase         *game.PhaseCoordinator
	grid          *GridSystem
	nav           *NavMeshSystem
	config        *config.PlayerConfig

	moveX, moveZ float64
}

// NewPlayerSystem 创建玩家系统
func NewPlayerSystem(em *ecs.EntityManager, phase *game.PhaseCoordinator, grid *GridSystem, cfg *config.PlayerConfig) *PlayerSystem {
	return &PlayerSystem{
		entityManager: em,
		phase:         phase,
		grid:          grid,
		config:        cfg,
	}
}

// UseNavMesh 设置 Defending 阶段用于阻挡判定的导航网格
func (s *PlayerSystem) UseNavMesh(nav *NavMeshSystem) {
	s.nav = nav
}

// findPlayer 返回玩家实体及其位置
func findPlayer(em *ecs.EntityManager) (ecs.EntityID, *components.PositionComponent, bool) {
	players := ecs.GetEntitiesWith2[*components.PlayerTagComponent, *components.PositionComponent](em)
	if len(players) == 0 {
		return 0, nil, false
	}
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, players[0])
	return players[0], pos, true
}

// Move 设置本帧的移动输入（不要求归一化，长度超过 1 时截断为 1）
func (s *PlayerSystem) Move(dx, dz float64) {
	s.moveX, s.moveZ = dx, dz
}

// Fire 朝 (dirX, dirZ) 发射一颗子弹
//
// 返回:
//   - bool: 是否成功发射（非 Defending、换弹中、方向为零时失败）
func (s *PlayerSystem) Fire(dirX, dirZ float64) bool {
	if s.phase != nil && !s.phase.Is(game.PhaseDefending) {
		return false
	}
	id, pos, ok := findPlayer(s.entityManager)
	if !ok {
		return false
	}
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, id)
	if !ok || player.Reloading || player.Shots <= 0 {
		return false
	}
	if dirX == 0 && dirZ == 0 {
		return false
	}

	if _, err := entities.NewBulletEntity(s.entityManager, pos.X, pos.Z, dirX, dirZ,
		player.BulletSpeed, player.BulletDamage, player.BulletRange, s.config.BulletHitRadius); err != nil {
		log.Printf("[PlayerSystem] Warning: failed to create bullet: %v", err)
		return false
	}

	player.Shots--
	if player.Shots == 0 {
		s.startReload(player)
	}
	return true
}

// Reload 手动换弹（弹匣已满或正在换弹时忽略）
func (s *PlayerSystem) Reload() {
	id, _, ok := findPlayer(s.entityManager)
	if !ok {
		return
	}
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, id)
	if !ok || player.Reloading || player.Shots >= player.MagazineSize {
		return
	}
	s.startReload(player)
}

func (s *PlayerSystem) startReload(player *components.PlayerComponent) {
	player.Reloading = true
	player.ReloadTimer = 0
}

// Update 处理移动输入和换弹计时
func (s *PlayerSystem) Update(dt float64) {
	id, pos, ok := findPlayer(s.entityManager)
	if !ok {
		return
	}
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, id)
	if !ok {
		return
	}

	if player.Reloading {
		player.ReloadTimer += dt
		if player.ReloadTimer >= player.ReloadTime {
			player.Reloading = false
			player.ReloadTimer = 0
			player.Shots = player.MagazineSize
		}
	}

	dx, dz := s.moveX, s.moveZ
	s.moveX, s.moveZ = 0, 0
	if dx == 0 && dz == 0 {
		return
	}
	if length := math.Hypot(dx, dz); length > 1 {
		dx, dz = dx/length, dz/length
	}
	step := player.Speed * dt
	if s.walkable(pos.X+dx*step, pos.Z) {
		pos.X += dx * step
	}
	if s.walkable(pos.X, pos.Z+dz*step) {
		pos.Z += dz * step
	}
}

func (s *PlayerSystem) walkable(x, z float64) bool {
	cell, ok := s.grid.WorldToCell(x, z)
	if !ok {
		return false
	}
	if s.nav != nil && s.phase != nil && s.phase.Is(game.PhaseDefending) {
		return s.nav.IsWalkable(cell)
	}
	return !s.grid.IsBlocked(cell.X, cell.Z)
}

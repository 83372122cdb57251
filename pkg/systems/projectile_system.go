package systems

import (
	"math"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/utils"
)

// projectileSubstep 子弹单次检测的最大移动距离，避免高速穿透
const projectileSubstep = 0.25

// ProjectileSystem 子弹飞行与命中
// 子弹遇到墙或离开网格时销毁；命中半径内的第一个敌人受到伤害后子弹销毁
// 设置了导航网格时读烘焙数据判定墙（子弹只在 Defending 阶段产生）
type ProjectileSystem struct {
	entityManager *ecs.EntityManager
	grid          *GridSystem
	nav           *NavMeshSystem
	damage        *DamageSystem
}

// NewProjectileSystem 创建子弹系统
func NewProjectileSystem(em *ecs.EntityManager, grid *GridSystem, damage *DamageSystem) *ProjectileSystem {
	return &ProjectileSystem{
		entityManager: em,
		grid:          grid,
		damage:        damage,
	}
}

// UseNavMesh 设置用于阻挡判定的导航网格
func (s *ProjectileSystem) UseNavMesh(nav *NavMeshSystem) {
	s.nav = nav
}

// Update 推进所有子弹
func (s *ProjectileSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](s.entityManager) {
		p, _ := ecs.GetComponent[*components.ProjectileComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !s.advance(p, pos, dt) {
			s.entityManager.DestroyEntity(id)
		}
	}
}

// advance 分段移动子弹，返回子弹是否继续存在
func (s *ProjectileSystem) advance(p *components.ProjectileComponent, pos *components.PositionComponent, dt float64) bool {
	speed := math.Hypot(p.VX, p.VZ)
	if speed == 0 {
		return false
	}
	travel := math.Min(speed*dt, p.Remaining)
	for travel > 0 {
		step := math.Min(travel, projectileSubstep)
		pos.X += p.VX / speed * step
		pos.Z += p.VZ / speed * step
		travel -= step
		p.Remaining -= step

		if s.blocked(pos.X, pos.Z) {
			return false
		}
		if enemy, hit := s.firstEnemyWithin(pos.X, pos.Z, p.HitRadius); hit {
			s.damage.Apply(enemy, p.Damage)
			return false
		}
	}
	return p.Remaining > 0
}

func (s *ProjectileSystem) blocked(x, z float64) bool {
	cell, ok := s.grid.WorldToCell(x, z)
	if !ok {
		return true
	}
	if s.nav != nil {
		return !s.nav.IsWalkable(cell)
	}
	return s.grid.IsBlocked(cell.X, cell.Z)
}

func (s *ProjectileSystem) firstEnemyWithin(x, z, radius float64) (ecs.EntityID, bool) {
	for _, id := range ecs.GetEntitiesWith2[*components.EnemyTagComponent, *components.PositionComponent](s.entityManager) {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if utils.Distance(x, z, pos.X, pos.Z) <= radius {
			return id, true
		}
	}
	return 0, false
}

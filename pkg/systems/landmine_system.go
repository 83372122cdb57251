package systems

import (
	"log"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/utils"
)

// LandmineSystem 地雷触发与爆炸
// 第一个进入触发半径的敌人引爆地雷：爆炸半径内所有敌人受到伤害，
// 地雷自身销毁并释放格子（经由 DamageSystem）
type LandmineSystem struct {
	entityManager *ecs.EntityManager
	damage        *DamageSystem
}

// NewLandmineSystem 创建地雷系统
func NewLandmineSystem(em *ecs.EntityManager, damage *DamageSystem) *LandmineSystem {
	return &LandmineSystem{
		entityManager: em,
		damage:        damage,
	}
}

// Update 检查所有未引爆的地雷
func (s *LandmineSystem) Update(dt float64) {
	enemies := ecs.GetEntitiesWith2[*components.EnemyTagComponent, *components.PositionComponent](s.entityManager)
	if len(enemies) == 0 {
		return
	}
	for _, id := range ecs.GetEntitiesWith2[*components.LandmineComponent, *components.PositionComponent](s.entityManager) {
		mine, _ := ecs.GetComponent[*components.LandmineComponent](s.entityManager, id)
		if mine.Triggered {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if s.anyEnemyWithin(enemies, pos.X, pos.Z, mine.TriggerRadius) {
			s.explode(id, mine, pos, enemies)
		}
	}
}

func (s *LandmineSystem) anyEnemyWithin(enemies []ecs.EntityID, x, z, radius float64) bool {
	for _, e := range enemies {
		if !s.entityManager.IsAlive(e) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, e)
		if utils.Distance(x, z, pos.X, pos.Z) <= radius {
			return true
		}
	}
	return false
}

func (s *LandmineSystem) explode(id ecs.EntityID, mine *components.LandmineComponent, pos *components.PositionComponent, enemies []ecs.EntityID) {
	mine.Triggered = true
	hits := 0
	for _, e := range enemies {
		if !s.entityManager.IsAlive(e) {
			continue
		}
		epos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, e)
		if utils.Distance(pos.X, pos.Z, epos.X, epos.Z) <= mine.Radius {
			s.damage.Apply(e, mine.Damage)
			hits++
		}
	}
	log.Printf("[LandmineSystem] Landmine %d exploded at (%.2f, %.2f), hit %d enemies", id, pos.X, pos.Z, hits)
	s.damage.Kill(id)
}

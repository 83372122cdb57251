package systems

import (
	"log"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/game"
)

// DamageSystem 统一处理伤害与死亡
//
// 所有生命值修改都经过这里，保证每个实体的死亡通知只发出一次：
//   - 敌人死亡：发布 EnemyDied，销毁实体
//   - 障碍物死亡：释放格子（导航网格随之标记为脏），发布 ObstacleDestroyed，销毁实体
//   - 玩家受伤：发布 PlayerDamaged；死亡时再发布 PlayerDied（玩家实体保留）
//
// 事件同步发布，处理函数返回后实体才被标记删除；
// 删除本身延迟到 tick 末尾，处理函数中仍可读取组件
type DamageSystem struct {
	entityManager *ecs.EntityManager
	bus           *game.EventBus
	grid          *GridSystem
}

// NewDamageSystem 创建伤害系统
func NewDamageSystem(em *ecs.EntityManager, bus *game.EventBus, grid *GridSystem) *DamageSystem {
	return &DamageSystem{
		entityManager: em,
		bus:           bus,
		grid:          grid,
	}
}

// Apply 对目标造成伤害
//
// 参数:
//   - target: 目标实体
//   - amount: 伤害量（<=0 忽略）
//
// 返回:
//   - bool: 目标是否因本次伤害死亡
func (s *DamageSystem) Apply(target ecs.EntityID, amount float64) bool {
	if amount <= 0 || !s.entityManager.IsAlive(target) {
		return false
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, target)
	if !ok {
		log.Printf("[DamageSystem] Warning: entity %d has no HealthComponent", target)
		return false
	}
	if health.Dead {
		return false
	}

	health.CurrentHealth -= amount
	died := health.CurrentHealth <= 0
	if died {
		health.CurrentHealth = 0
		health.Dead = true
	}

	switch {
	case ecs.HasComponent[*components.PlayerTagComponent](s.entityManager, target):
		s.bus.Publish(game.Event{Signal: game.SignalPlayerDamaged, Entity: target, Amount: amount})
		if died {
			log.Printf("[DamageSystem] Player %d died", target)
			s.bus.Publish(game.Event{Signal: game.SignalPlayerDied, Entity: target})
		}

	case ecs.HasComponent[*components.ObstacleComponent](s.entityManager, target):
		if died {
			s.destroyObstacle(target)
		}

	case ecs.HasComponent[*components.EnemyTagComponent](s.entityManager, target):
		if died {
			s.bus.Publish(game.Event{Signal: game.SignalEnemyDied, Entity: target})
			s.entityManager.DestroyEntity(target)
		}

	default:
		if died {
			s.entityManager.DestroyEntity(target)
		}
	}

	return died
}

// Kill 直接杀死目标（地雷引爆时自身销毁等场景）
func (s *DamageSystem) Kill(target ecs.EntityID) bool {
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, target)
	if !ok || health.Dead {
		return false
	}
	return s.Apply(target, health.CurrentHealth+1)
}

// Heal 回复生命值，不超过上限
func (s *DamageSystem) Heal(target ecs.EntityID, amount float64) {
	if amount <= 0 || !s.entityManager.IsAlive(target) {
		return
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, target)
	if !ok || health.Dead {
		return
	}
	health.CurrentHealth += amount
	if health.CurrentHealth > health.MaxHealth {
		health.CurrentHealth = health.MaxHealth
	}
}

func (s *DamageSystem) destroyObstacle(target ecs.EntityID) {
	obstacle, _ := ecs.GetComponent[*components.ObstacleComponent](s.entityManager, target)
	if s.grid != nil && !s.grid.Release(target) {
		log.Printf("[DamageSystem] Warning: obstacle %d did not own cell (%d, %d)", target, obstacle.Cell.X, obstacle.Cell.Z)
	}
	log.Printf("[DamageSystem] %s %d destroyed at (%d, %d)", obstacle.Kind, target, obstacle.Cell.X, obstacle.Cell.Z)
	s.bus.Publish(game.Event{Signal: game.SignalObstacleDestroyed, Entity: target})
	s.entityManager.DestroyEntity(target)
}

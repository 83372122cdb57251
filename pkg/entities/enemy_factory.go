package entities

import (
	"fmt"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/ecs"
)

// NewEnemyEntity 创建近战敌人实体
// 初始 AI 状态为 CheckPath
//
// 参数:
//   - em: 实体管理器
//   - cfg: 游戏配置（读取敌人属性）
//   - x, z: 出生点世界坐标
//
// 返回:
//   - ecs.EntityID: 敌人实体ID
//   - error: 参数无效时返回错误
func NewEnemyEntity(em *ecs.EntityManager, cfg *config.GameConfig, x, z float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return 0, fmt.Errorf("game config cannot be nil")
	}

	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.PositionComponent{X: x, Z: z})
	em.AddComponent(entityID, &components.HealthComponent{
		CurrentHealth: cfg.Enemy.Health,
		MaxHealth:     cfg.Enemy.Health,
	})
	em.AddComponent(entityID, &components.EnemyComponent{
		State:      components.EnemyCheckPath,
		NavVersion: -1,
	})
	em.AddComponent(entityID, &components.NavAgentComponent{
		Speed:        cfg.Enemy.Speed,
		StopDistance: cfg.Enemy.AttackRange * 0.8,
	})
	em.AddComponent(entityID, &components.EnemyTagComponent{})
	return entityID, nil
}

package entities

import (
	"fmt"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/ecs"
)

// NewWallEntity 创建墙实体
// 墙阻挡寻路，可被敌人攻击；生命值归零时由 DamageSystem 释放格子
//
// 参数:
//   - em: 实体管理器
//   - cfg: 游戏配置（读取墙生命值）
//   - cell: 占用的格子
//   - x, z: 格子中心世界坐标
//
// 返回:
//   - ecs.EntityID: 墙实体ID
//   - error: 参数无效时返回错误
func NewWallEntity(em *ecs.EntityManager, cfg *config.GameConfig, cell components.Cell, x, z float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return 0, fmt.Errorf("game config cannot be nil")
	}

	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.PositionComponent{X: x, Z: z})
	em.AddComponent(entityID, &components.HealthComponent{
		CurrentHealth: cfg.Wall.Health,
		MaxHealth:     cfg.Wall.Health,
	})
	em.AddComponent(entityID, &components.ObstacleComponent{
		Kind:     components.ObstacleWall,
		Cell:     cell,
		Blocking: true,
	})
	return entityID, nil
}

// NewLandmineEntity 创建地雷实体
// 地雷占用格子但不阻挡寻路，敌人踩上后引爆
func NewLandmineEntity(em *ecs.EntityManager, cfg *config.GameConfig, cell components.Cell, x, z float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return 0, fmt.Errorf("game config cannot be nil")
	}

	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.PositionComponent{X: x, Z: z})
	em.AddComponent(entityID, &components.HealthComponent{
		CurrentHealth: cfg.Landmine.Health,
		MaxHealth:     cfg.Landmine.Health,
	})
	em.AddComponent(entityID, &components.ObstacleComponent{
		Kind:     components.ObstacleLandmine,
		Cell:     cell,
		Blocking: false,
	})
	em.AddComponent(entityID, &components.LandmineComponent{
		TriggerRadius: cfg.Landmine.TriggerRadius,
		Radius:        cfg.Landmine.Radius,
		Damage:        cfg.Landmine.Damage,
	})
	return entityID, nil
}

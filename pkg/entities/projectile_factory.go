package entities

import (
	"fmt"
	"math"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/ecs"
)

// NewBulletEntity 创建玩家子弹实体
// 子弹以恒定速度沿 (dirX, dirZ) 方向飞行，射程耗尽后销毁
//
// 参数:
//   - em: 实体管理器
//   - x, z: 发射点世界坐标
//   - dirX, dirZ: 发射方向（不要求归一化，不能为零向量）
//   - speed, damage, rng, hitRadius: 子弹属性
func NewBulletEntity(em *ecs.EntityManager, x, z, dirX, dirZ, speed, damage, rng, hitRadius float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	length := math.Hypot(dirX, dirZ)
	if length == 0 {
		return 0, fmt.Errorf("bullet direction cannot be zero")
	}

	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.PositionComponent{X: x, Z: z})
	em.AddComponent(entityID, &components.ProjectileComponent{
		VX:        dirX / length * speed,
		VZ:        dirZ / length * speed,
		Damage:    damage,
		Remaining: rng,
		HitRadius: hitRadius,
	})
	return entityID, nil
}

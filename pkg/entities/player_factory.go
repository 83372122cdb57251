package entities

import (
	"fmt"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/ecs"
)

// NewPlayerEntity 创建玩家实体，弹匣初始为满
func NewPlayerEntity(em *ecs.EntityManager, cfg *config.GameConfig, x, z float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return 0, fmt.Errorf("game config cannot be nil")
	}

	p := cfg.Player
	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.PositionComponent{X: x, Z: z})
	em.AddComponent(entityID, &components.HealthComponent{
		CurrentHealth: p.Health,
		MaxHealth:     p.Health,
	})
	em.AddComponent(entityID, &components.PlayerComponent{
		Speed:        p.Speed,
		MagazineSize: p.Magazine,
		Shots:        p.Magazine,
		ReloadTime:   p.ReloadTime,
		BulletDamage: p.BulletDamage,
		BulletSpeed:  p.BulletSpeed,
		BulletRange:  p.BulletRange,
	})
	em.AddComponent(entityID, &components.PlayerTagComponent{})
	return entityID, nil
}

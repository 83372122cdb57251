package components

// HealthComponent 存储实体的生命值信息
// 用于敌人、障碍物（墙、地雷）和玩家等可被攻击的实体
//
// 生命值变化必须经过 DamageSystem，保证死亡通知只发出一次
type HealthComponent struct {
	CurrentHealth float64 // 当前生命值
	MaxHealth     float64 // 最大生命值
	Dead          bool    // 是否已死亡（死亡后忽略后续伤害）
}

// IsAlive 生命值大于 0 且未标记死亡
func (h *HealthComponent) IsAlive() bool {
	return !h.Dead && h.CurrentHealth > 0
}

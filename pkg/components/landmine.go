package components

// LandmineComponent 地雷
// 第一个进入触发半径的敌人引爆地雷，对爆炸半径内所有敌人造成伤害
type LandmineComponent struct {
	TriggerRadius float64
	Radius        float64 // 爆炸半径
	Damage        float64
	Triggered     bool
}

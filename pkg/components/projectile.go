package components

// ProjectileComponent 玩家发射的子弹
type ProjectileComponent struct {
	VX, VZ    float64 // 速度（世界单位/秒）
	Damage    float64
	Remaining float64 // 剩余射程
	HitRadius float64 // 命中判定半径
}

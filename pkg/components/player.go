package components

// PlayerComponent 玩家的移动与射击数据
type PlayerComponent struct {
	Speed float64 // 移动速度（世界单位/秒）

	// 弹匣
	MagazineSize int     // 弹匣容量
	Shots        int     // 剩余子弹
	Reloading    bool    // 是否正在换弹
	ReloadTime   float64 // 换弹所需时间（秒）
	ReloadTimer  float64 // 换弹已用时间（秒）

	// 子弹属性
	BulletDamage float64
	BulletSpeed  float64
	BulletRange  float64
}

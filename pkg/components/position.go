package components

// PositionComponent 实体在地面平面上的世界坐标
// 地面为 XZ 平面，Y 轴向上（与俯视相机一致）
type PositionComponent struct {
	X float64
	Z float64
}

package components

import "github.com/decker502/zombie-defense/pkg/ecs"

// Cell 网格坐标 (X 列, Z 行)
type Cell struct {
	X, Z int
}

// GridComponent 标识放置网格管理器实体
// 用于跟踪哪些格子已被障碍物占用
//
// Occupancy 按行优先存储每个格子的占用者 [z*Width+x] = EntityID，0 表示空格子
// 网格原点 (OriginX, OriginZ) 为格子 (0,0) 的左下角世界坐标
type GridComponent struct {
	Width    int
	Height   int
	CellSize float64
	OriginX  float64
	OriginZ  float64

	// Occupancy 存储每个格子的占用者 (0 表示空格子)
	Occupancy []ecs.EntityID
}

// Index 返回格子在 Occupancy 中的下标，调用方负责边界检查
func (g *GridComponent) Index(x, z int) int {
	return z*g.Width + x
}

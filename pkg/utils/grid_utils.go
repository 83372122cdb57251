package utils

import "math"

// parallelEpsilon 射线方向 Y 分量小于此值视为与地面平行
const parallelEpsilon = 1e-9

// Ray 三维射线（Y 轴向上，地面为 XZ 平面）
type Ray struct {
	OriginX, OriginY, OriginZ float64
	DirX, DirY, DirZ          float64
}

// IntersectGround 计算射线与高度为 planeY 的水平面的交点
// 参数:
//   - ray: 指针射线
//   - planeY: 地面高度
//
// 返回:
//   - x, z: 交点的世界坐标
//   - ok: 射线与平面平行或交点在射线起点之后时为 false
func IntersectGround(ray Ray, planeY float64) (x, z float64, ok bool) {
	if math.Abs(ray.DirY) < parallelEpsilon {
		return 0, 0, false
	}
	t := -(ray.OriginY - planeY) / ray.DirY
	if t < 0 {
		return 0, 0, false
	}
	return ray.OriginX + t*ray.DirX, ray.OriginZ + t*ray.DirZ, true
}

// WorldToCell 将世界坐标转换为网格坐标
// 使用向下取整：格子边界上的点总是归属右上方的格子，避免在相邻格子间闪烁
// 返回值可能越界，由调用方检查
func WorldToCell(x, z, originX, originZ, cellSize float64) (cellX, cellZ int) {
	cellX = int(math.Floor((x - originX) / cellSize))
	cellZ = int(math.Floor((z - originZ) / cellSize))
	return cellX, cellZ
}

// CellCenter 返回格子中心的世界坐标
func CellCenter(cellX, cellZ int, originX, originZ, cellSize float64) (x, z float64) {
	x = originX + (float64(cellX)+0.5)*cellSize
	z = originZ + (float64(cellZ)+0.5)*cellSize
	return x, z
}

// Distance 地面平面上两点的距离
func Distance(x1, z1, x2, z2 float64) float64 {
	return math.Hypot(x2-x1, z2-z1)
}

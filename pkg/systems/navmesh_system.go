package systems

import (
	"log"

	"github.com/decker502/zombie-defense/pkg/components"
)

// NavMeshSystem 导航网格（烘焙后的可通行网格）
//
// 职责：
//   - 保存网格占用的烘焙副本，寻路只读此副本，不读实时占用
//   - 合并重建请求：MarkDirty 只置脏标志，Flush 在脏时最多重建一次
//   - 每次重建递增 Version，敌人据此判断路径是否过期
//
// 重建时机：
//   - 进入 Defending 前由阶段协调器的前置钩子调用 Rebuild（总是重建）
//   - Defending 期间由 Session 在每个 tick 末尾调用 Flush
//     （障碍物被摧毁、地雷爆炸后，下一 tick 的敌人看到新的网格）
type NavMeshSystem struct {
	grid     *GridSystem
	width    int
	height   int
	walkable []bool
	version  int
	dirty    bool
	rebuilds int
}

// NewNavMeshSystem 创建导航网格并立即烘焙一次
// 注册为网格的变更监听者
func NewNavMeshSystem(grid *GridSystem) *NavMeshSystem {
	nav := &NavMeshSystem{
		grid:   grid,
		width:  grid.Width(),
		height: grid.Height(),
	}
	grid.OnChanged(nav.MarkDirty)
	nav.Rebuild()
	return nav
}

// MarkDirty 请求重建（合并到下一次 Flush）
func (n *NavMeshSystem) MarkDirty() {
	n.dirty = true
}

// IsDirty 是否有未处理的重建请求
func (n *NavMeshSystem) IsDirty() bool {
	return n.dirty
}

// Flush 有重建请求时重建一次
//
// 返回:
//   - bool: 是否执行了重建
func (n *NavMeshSystem) Flush() bool {
	if !n.dirty {
		return false
	}
	n.Rebuild()
	return true
}

// Rebuild 立即从网格占用重新烘焙可通行数据并清除脏标志
func (n *NavMeshSystem) Rebuild() {
	if n.walkable == nil {
		n.walkable = make([]bool, n.width*n.height)
	}
	blocked := 0
	for z := 0; z < n.height; z++ {
		for x := 0; x < n.width; x++ {
			ok := !n.grid.IsBlocked(x, z)
			n.walkable[z*n.width+x] = ok
			if !ok {
				blocked++
			}
		}
	}
	n.dirty = false
	n.version++
	n.rebuilds++
	log.Printf("[NavMeshSystem] Rebuilt navmesh v%d (%d blocked cells)", n.version, blocked)
}

// Version 当前烘焙版本号（每次重建递增）
func (n *NavMeshSystem) Version() int {
	return n.version
}

// RebuildCount 累计重建次数
func (n *NavMeshSystem) RebuildCount() int {
	return n.rebuilds
}

// IsWalkable 烘焙数据中格子是否可通行（越界为 false）
func (n *NavMeshSystem) IsWalkable(c components.Cell) bool {
	if c.X < 0 || c.X >= n.width || c.Z < 0 || c.Z >= n.height {
		return false
	}
	return n.walkable[c.Z*n.width+c.X]
}

// FindPath A* 计算 from 到 to 的路径
// 起点和终点总是视为可通行（敌人和玩家可能站在格子边界上）
//
// 返回:
//   - []components.Cell: 路径（不含起点，含终点）
//   - bool: 是否存在完整路径
func (n *NavMeshSystem) FindPath(from, to components.Cell) ([]components.Cell, bool) {
	if !n.inBounds(to) {
		return nil, false
	}
	search := gridSearch{
		width:  n.width,
		height: n.height,
		cost: func(c components.Cell) (float64, bool) {
			if c == to || n.IsWalkable(c) {
				return 1, true
			}
			return 0, false
		},
		heuristic: func(c components.Cell) float64 { return manhattan(c, to) },
		goal:      func(c components.Cell) bool { return c == to },
	}
	path, _, ok := search.run(from)
	return path, ok
}

// HasCompletePath 是否存在 from 到 to 的完整路径
func (n *NavMeshSystem) HasCompletePath(from, to components.Cell) bool {
	_, ok := n.FindPath(from, to)
	return ok
}

// SampleWalkable 在 near 周围切比雪夫半径 radius 内寻找最近的可通行格子
func (n *NavMeshSystem) SampleWalkable(near components.Cell, radius int) (components.Cell, bool) {
	return n.nearest(near, radius, n.IsWalkable)
}

// SampleReachable 在 near 周围半径 radius 内寻找从 from 可到达的最近可通行格子
// 用于敌人选择障碍物旁边的接近点
func (n *NavMeshSystem) SampleReachable(from, near components.Cell, radius int) (components.Cell, bool) {
	reachable := n.reachableFrom(from)
	if reachable == nil {
		return components.Cell{}, false
	}
	return n.nearest(near, radius, func(c components.Cell) bool {
		return n.inBounds(c) && reachable[c.Z*n.width+c.X]
	})
}

// nearest 按欧氏距离（再按行列）选出半径内第一个满足条件的格子
func (n *NavMeshSystem) nearest(near components.Cell, radius int, accept func(components.Cell) bool) (components.Cell, bool) {
	var (
		best  components.Cell
		bestD = -1
	)
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			c := components.Cell{X: near.X + dx, Z: near.Z + dz}
			if !accept(c) {
				continue
			}
			d := dx*dx + dz*dz
			if bestD < 0 || d < bestD {
				best, bestD = c, d
			}
		}
	}
	return best, bestD >= 0
}

// reachableFrom 从 from 出发的连通可通行格子（起点视为可通行）
func (n *NavMeshSystem) reachableFrom(from components.Cell) []bool {
	if !n.inBounds(from) {
		return nil
	}
	seen := make([]bool, n.width*n.height)
	seen[from.Z*n.width+from.X] = true
	queue := []components.Cell{from}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, off := range neighborOffsets {
			next := components.Cell{X: c.X + off[0], Z: c.Z + off[1]}
			if !n.IsWalkable(next) || seen[next.Z*n.width+next.X] {
				continue
			}
			seen[next.Z*n.width+next.X] = true
			queue = append(queue, next)
		}
	}
	return seen
}

func (n *NavMeshSystem) inBounds(c components.Cell) bool {
	return c.X >= 0 && c.X < n.width && c.Z >= 0 && c.Z < n.height
}

package systems

import (
	"container/heap"

	"github.com/decker502/zombie-defense/pkg/components"
)

// stepCost 进入格子的代价，ok=false 表示不可进入
type stepCost func(c components.Cell) (cost float64, ok bool)

// gridSearch 网格上的 4 邻域最短路径搜索
// heuristic 为 nil 时退化为 Dijkstra（用于多目标搜索）
type gridSearch struct {
	width, height int
	cost          stepCost
	heuristic     func(c components.Cell) float64
	goal          func(c components.Cell) bool
}

// searchNode 优先队列节点
type searchNode struct {
	cell     components.Cell
	g        float64 // 起点到此格子的实际代价
	priority float64 // g + 启发值
	seq      int     // 入队序号，相同优先级时先入先出，保证结果确定
	parent   *searchNode
}

type nodeQueue []*searchNode

func (q nodeQueue) Len() int { return len(q) }
func (q nodeQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].seq < q[j].seq
}
func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x any)   { *q = append(*q, x.(*searchNode)) }
func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// neighborOffsets 固定的邻居展开顺序：右、上、左、下
var neighborOffsets = [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// run 从 start 搜索到第一个满足 goal 的格子
// 起点本身总是视为可通行
//
// 返回:
//   - []components.Cell: 路径（不含起点，含终点）；起点即终点时为空切片
//   - float64: 路径总代价
//   - bool: 是否找到
func (s *gridSearch) run(start components.Cell) ([]components.Cell, float64, bool) {
	if !s.inBounds(start) {
		return nil, 0, false
	}

	best := make([]float64, s.width*s.height)
	closed := make([]bool, s.width*s.height)
	for i := range best {
		best[i] = -1
	}

	seq := 0
	pq := &nodeQueue{}
	heap.Init(pq)
	heap.Push(pq, &searchNode{cell: start, priority: s.h(start)})
	best[s.index(start)] = 0

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*searchNode)
		idx := s.index(current.cell)
		if closed[idx] {
			continue
		}
		closed[idx] = true

		if s.goal(current.cell) {
			return reconstructCells(current), current.g, true
		}

		for _, off := range neighborOffsets {
			next := components.Cell{X: current.cell.X + off[0], Z: current.cell.Z + off[1]}
			if !s.inBounds(next) || closed[s.index(next)] {
				continue
			}
			step, ok := s.cost(next)
			if !ok {
				continue
			}
			g := current.g + step
			ni := s.index(next)
			if best[ni] >= 0 && g >= best[ni] {
				continue
			}
			best[ni] = g
			seq++
			heap.Push(pq, &searchNode{cell: next, g: g, priority: g + s.h(next), seq: seq, parent: current})
		}
	}
	return nil, 0, false
}

func (s *gridSearch) h(c components.Cell) float64 {
	if s.heuristic == nil {
		return 0
	}
	return s.heuristic(c)
}

func (s *gridSearch) inBounds(c components.Cell) bool {
	return c.X >= 0 && c.X < s.width && c.Z >= 0 && c.Z < s.height
}

func (s *gridSearch) index(c components.Cell) int {
	return c.Z*s.width + c.X
}

// reconstructCells 回溯父节点得到路径（去掉起点）
func reconstructCells(node *searchNode) []components.Cell {
	n := 0
	for p := node; p.parent != nil; p = p.parent {
		n++
	}
	path := make([]components.Cell, n)
	for p := node; p.parent != nil; p = p.parent {
		n--
		path[n] = p.cell
	}
	return path
}

// manhattan 曼哈顿距离，4 邻域单位代价下的可采纳启发函数
func manhattan(a, b components.Cell) float64 {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dz := a.Z - b.Z
	if dz < 0 {
		dz = -dz
	}
	return float64(dx + dz)
}

package systems

import (
	"fmt"
	"log"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/entities"
	"github.com/decker502/zombie-defense/pkg/game"
	"github.com/decker502/zombie-defense/pkg/utils"
)

// PlacementResult 放置尝试的结果
type PlacementResult int

const (
	PlacementPlaced PlacementResult = iota
	PlacementOutOfBounds
	PlacementCellOccupied
	PlacementInsufficientResources
	PlacementWrongPhase
	// PlacementFailed 网格组件缺失或实体创建失败（内部错误，已记录日志）
	PlacementFailed
)

// String 返回结果名称
func (r PlacementResult) String() string {
	switch r {
	case PlacementPlaced:
		return "Placed"
	case PlacementOutOfBounds:
		return "OutOfBounds"
	case PlacementCellOccupied:
		return "CellOccupied"
	case PlacementInsufficientResources:
		return "InsufficientResources"
	case PlacementWrongPhase:
		return "WrongPhase"
	case PlacementFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Placement 放置尝试的返回值
// 只有 Result == PlacementPlaced 时 Entity 有效
type Placement struct {
	Result PlacementResult
	Cell   components.Cell
	Entity ecs.EntityID
}

// GridSystem 管理放置网格的占用状态并校验放置
//
// 职责：
//   - 唯一修改 GridComponent.Occupancy 的组件，其余系统只读
//   - 校验并执行放置：阶段 -> 边界 -> 占用 -> 资源
//   - 每次成功放置或移除后通知变更监听者（导航网格标记为脏）
//
// 不变式：格子被占用当且仅当存在引用该格子的存活障碍物
type GridSystem struct {
	entityManager *ecs.EntityManager
	config        *config.GameConfig
	pool          *game.ResourcePool
	phase         *game.PhaseCoordinator
	gridEntity    ecs.EntityID
	listeners     []func()
}

// NewGridSystem 创建网格系统和网格实体
//
// 参数:
//   - em: 实体管理器
//   - cfg: 游戏配置（网格尺寸、放置花费、障碍物属性）
//   - pool: 资源池，放置时扣除花费
//   - phase: 阶段协调器，为 nil 时不检查阶段
//
// 返回:
//   - *GridSystem: 网格系统
//   - error: em/cfg/pool 为 nil 时返回错误
func NewGridSystem(em *ecs.EntityManager, cfg *config.GameConfig, pool *game.ResourcePool, phase *game.PhaseCoordinator) (*GridSystem, error) {
	if em == nil {
		return nil, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("game config cannot be nil")
	}
	if pool == nil {
		return nil, fmt.Errorf("resource pool cannot be nil")
	}

	g := cfg.Grid
	gridEntity := em.CreateEntity()
	em.AddComponent(gridEntity, &components.GridComponent{
		Width:     g.Width,
		Height:    g.Height,
		CellSize:  g.CellSize,
		OriginX:   g.OriginX(),
		OriginZ:   g.OriginZ(),
		Occupancy: make([]ecs.EntityID, g.Width*g.Height),
	})

	log.Printf("[GridSystem] Created %dx%d grid (cell %.2f, origin %.2f,%.2f)", g.Width, g.Height, g.CellSize, g.OriginX(), g.OriginZ())

	return &GridSystem{
		entityManager: em,
		config:        cfg,
		pool:          pool,
		phase:         phase,
		gridEntity:    gridEntity,
	}, nil
}

// GridEntity 返回网格实体ID
func (s *GridSystem) GridEntity() ecs.EntityID {
	return s.gridEntity
}

// OnChanged 注册占用变化监听者
func (s *GridSystem) OnChanged(fn func()) {
	s.listeners = append(s.listeners, fn)
}

func (s *GridSystem) notifyChanged() {
	for _, fn := range s.listeners {
		fn()
	}
}

func (s *GridSystem) grid() *components.GridComponent {
	grid, ok := ecs.GetComponent[*components.GridComponent](s.entityManager, s.gridEntity)
	if !ok {
		return nil
	}
	return grid
}

// Width 网格列数
func (s *GridSystem) Width() int { return s.config.Grid.Width }

// Height 网格行数
func (s *GridSystem) Height() int { return s.config.Grid.Height }

// CellSize 格子边长
func (s *GridSystem) CellSize() float64 { return s.config.Grid.CellSize }

// InBounds 格子是否在 [0,width)×[0,height) 内
func (s *GridSystem) InBounds(x, z int) bool {
	return x >= 0 && x < s.config.Grid.Width && z >= 0 && z < s.config.Grid.Height
}

// Occupant 返回占用格子的实体（越界或空格子返回 0）
func (s *GridSystem) Occupant(x, z int) ecs.EntityID {
	grid := s.grid()
	if grid == nil || !s.InBounds(x, z) {
		return 0
	}
	return grid.Occupancy[grid.Index(x, z)]
}

// IsOccupied 格子是否被障碍物占用（越界返回 false）
func (s *GridSystem) IsOccupied(x, z int) bool {
	return s.Occupant(x, z) != 0
}

// IsBlocked 格子是否阻挡通行
// 越界格子视为阻挡；地雷占用格子但不阻挡
func (s *GridSystem) IsBlocked(x, z int) bool {
	if !s.InBounds(x, z) {
		return true
	}
	occupant := s.Occupant(x, z)
	if occupant == 0 {
		return false
	}
	obstacle, ok := ecs.GetComponent[*components.ObstacleComponent](s.entityManager, occupant)
	return ok && obstacle.Blocking
}

// Cost 返回障碍物类型的放置花费
func (s *GridSystem) Cost(kind components.ObstacleKind) int {
	switch kind {
	case components.ObstacleLandmine:
		return s.config.Costs.Landmine
	default:
		return s.config.Costs.Wall
	}
}

// Check 只校验不执行，用于放置预览
func (s *GridSystem) Check(x, z int, kind components.ObstacleKind) PlacementResult {
	if s.phase != nil && !s.phase.Is(game.PhaseBuilding) {
		return PlacementWrongPhase
	}
	if !s.InBounds(x, z) {
		return PlacementOutOfBounds
	}
	if s.IsOccupied(x, z) {
		return PlacementCellOccupied
	}
	if !s.pool.CanAfford(s.Cost(kind)) {
		return PlacementInsufficientResources
	}
	return PlacementPlaced
}

// TryPlace 尝试在格子上放置障碍物
// 成功时扣除花费、标记占用、创建障碍物实体并通知监听者；失败时不修改任何状态
//
// 参数:
//   - x, z: 格子坐标
//   - kind: 障碍物类型
//
// 返回:
//   - Placement: 放置结果，成功时包含新实体
func (s *GridSystem) TryPlace(x, z int, kind components.ObstacleKind) Placement {
	cell := components.Cell{X: x, Z: z}
	if result := s.Check(x, z, kind); result != PlacementPlaced {
		return Placement{Result: result, Cell: cell}
	}

	grid := s.grid()
	if grid == nil {
		log.Printf("[GridSystem] Warning: grid component missing on entity %d", s.gridEntity)
		return Placement{Result: PlacementFailed, Cell: cell}
	}

	cx, cz := s.CellCenter(cell)
	var (
		id  ecs.EntityID
		err error
	)
	switch kind {
	case components.ObstacleLandmine:
		id, err = entities.NewLandmineEntity(s.entityManager, s.config, cell, cx, cz)
	default:
		id, err = entities.NewWallEntity(s.entityManager, s.config, cell, cx, cz)
	}
	if err != nil {
		log.Printf("[GridSystem] Warning: failed to create %s at (%d, %d): %v", kind, x, z, err)
		return Placement{Result: PlacementFailed, Cell: cell}
	}

	s.pool.Spend(s.Cost(kind))
	grid.Occupancy[grid.Index(x, z)] = id
	log.Printf("[GridSystem] Placed %s %d at (%d, %d), resources left %d", kind, id, x, z, s.pool.Amount())
	s.notifyChanged()

	return Placement{Result: PlacementPlaced, Cell: cell, Entity: id}
}

// Unoccupy 清空格子并销毁占用它的障碍物实体
// 空格子或越界格子为空操作
// 障碍物生命值归零时由 DamageSystem 走 Release，不经过这里
func (s *GridSystem) Unoccupy(x, z int) {
	occupant := s.clearCell(x, z)
	if occupant == 0 {
		return
	}
	log.Printf("[GridSystem] Cleared (%d, %d), removing obstacle %d", x, z, occupant)
	s.entityManager.DestroyEntity(occupant)
}

// clearCell 清空格子占用，返回原占用者（空格子返回 0）
func (s *GridSystem) clearCell(x, z int) ecs.EntityID {
	grid := s.grid()
	if grid == nil || !s.InBounds(x, z) {
		return 0
	}
	idx := grid.Index(x, z)
	occupant := grid.Occupancy[idx]
	if occupant == 0 {
		return 0
	}
	grid.Occupancy[idx] = 0
	s.notifyChanged()
	return occupant
}

// Release 释放障碍物占用的格子
// 仅当格子仍由该实体占用时才清空
//
// 返回:
//   - bool: 是否释放了格子
func (s *GridSystem) Release(entity ecs.EntityID) bool {
	obstacle, ok := ecs.GetComponent[*components.ObstacleComponent](s.entityManager, entity)
	if !ok {
		return false
	}
	if s.Occupant(obstacle.Cell.X, obstacle.Cell.Z) != entity {
		return false
	}
	s.clearCell(obstacle.Cell.X, obstacle.Cell.Z)
	return true
}

// CellCenter 格子中心的世界坐标
func (s *GridSystem) CellCenter(c components.Cell) (x, z float64) {
	g := s.config.Grid
	return utils.CellCenter(c.X, c.Z, g.OriginX(), g.OriginZ(), g.CellSize)
}

// WorldToCell 世界坐标所在的格子（向下取整）
//
// 返回:
//   - components.Cell: 格子坐标（可能越界）
//   - bool: 是否在网格内
func (s *GridSystem) WorldToCell(x, z float64) (components.Cell, bool) {
	g := s.config.Grid
	cx, cz := utils.WorldToCell(x, z, g.OriginX(), g.OriginZ(), g.CellSize)
	return components.Cell{X: cx, Z: cz}, s.InBounds(cx, cz)
}

// Snapshot 返回占用标志的副本（行优先）
func (s *GridSystem) Snapshot() []bool {
	grid := s.grid()
	if grid == nil {
		return nil
	}
	out := make([]bool, len(grid.Occupancy))
	for i, id := range grid.Occupancy {
		out[i] = id != 0
	}
	return out
}

// Obstacles 返回所有仍占用格子的障碍物实体
func (s *GridSystem) Obstacles() []ecs.EntityID {
	grid := s.grid()
	if grid == nil {
		return nil
	}
	result := make([]ecs.EntityID, 0)
	for _, id := range grid.Occupancy {
		if id != 0 {
			result = append(result, id)
		}
	}
	return result
}

// IsEnclosed 从格子出发沿可通行格子能否到达网格边缘
// 起点本身视为可通行；越界起点返回 false
func (s *GridSystem) IsEnclosed(x, z int) bool {
	if !s.InBounds(x, z) {
		return false
	}
	w, h := s.Width(), s.Height()
	visited := make([]bool, w*h)
	queue := []components.Cell{{X: x, Z: z}}
	visited[z*w+x] = true

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c.X == 0 || c.Z == 0 || c.X == w-1 || c.Z == h-1 {
			return false
		}
		for _, off := range neighborOffsets {
			n := components.Cell{X: c.X + off[0], Z: c.Z + off[1]}
			if !s.InBounds(n.X, n.Z) || visited[n.Z*w+n.X] || s.IsBlocked(n.X, n.Z) {
				continue
			}
			visited[n.Z*w+n.X] = true
			queue = append(queue, n)
		}
	}
	return true
}

package systems

import (
	"math"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/ecs"
)

// MovementSystem 沿导航路径推进实体
// 每帧按 Speed*dt 的距离预算依次走过路径点（格子中心），
// 路径走完后朝 Dest 移动，距目标 StopDistance 以内停止
type MovementSystem struct {
	entityManager *ecs.EntityManager
	grid          *GridSystem
}

// NewMovementSystem 创建移动系统
func NewMovementSystem(em *ecs.EntityManager, grid *GridSystem) *MovementSystem {
	return &MovementSystem{
		entityManager: em,
		grid:          grid,
	}
}

// Update 推进所有导航实体
func (s *MovementSystem) Update(dt float64) {
	if dt <= 0 {
		return
	}
	for _, id := range ecs.GetEntitiesWith2[*components.NavAgentComponent, *components.PositionComponent](s.entityManager) {
		agent, _ := ecs.GetComponent[*components.NavAgentComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		agent.Moved = s.advance(agent, pos, agent.Speed*dt)
	}
}

// advance 消耗距离预算移动，返回实际移动距离
func (s *MovementSystem) advance(agent *components.NavAgentComponent, pos *components.PositionComponent, budget float64) float64 {
	moved := 0.0
	for budget > 1e-9 {
		var tx, tz, stop float64
		waypoint := len(agent.Path) > 0
		switch {
		case waypoint:
			tx, tz = s.grid.CellCenter(agent.Path[0])
		case agent.HasDest:
			tx, tz, stop = agent.DestX, agent.DestZ, agent.StopDistance
		default:
			return moved
		}

		dx, dz := tx-pos.X, tz-pos.Z
		dist := math.Hypot(dx, dz)
		remaining := dist - stop
		if remaining <= 0 {
			if waypoint {
				agent.Path = agent.Path[1:]
				continue
			}
			return moved
		}

		step := math.Min(budget, remaining)
		pos.X += dx / dist * step
		pos.Z += dz / dist * step
		budget -= step
		moved += step

		if step == remaining && waypoint {
			agent.Path = agent.Path[1:]
		}
	}
	return moved
}

package systems

import (
	"log"
	"math"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/game"
	"github.com/decker502/zombie-defense/pkg/utils"
)

// BestPathSystem 最佳路径走廊
//
// 每次进入 Defending 时计算一次：从玩家所在格子到网格边缘的加权最短路径，
// 空格子代价 1，墙格子代价为配置的惩罚值。位于该路径上的墙被标记 OnBestPath，
// 敌人寻找障碍物时优先攻击这些墙。
type BestPathSystem struct {
	entityManager *ecs.EntityManager
	grid          *GridSystem
	penalty       float64
	corridor      []components.Cell
	sub           game.Subscription
	bus           *game.EventBus
}

// NewBestPathSystem 创建最佳路径系统并订阅阶段变化
func NewBestPathSystem(em *ecs.EntityManager, bus *game.EventBus, grid *GridSystem, penalty float64) *BestPathSystem {
	s := &BestPathSystem{
		entityManager: em,
		grid:          grid,
		penalty:       penalty,
		bus:           bus,
	}
	s.sub = bus.Subscribe(game.SignalPhaseChanged, func(ev game.Event) {
		if ev.Entered(game.PhaseDefending) {
			s.RecomputeFromPlayer()
		}
	})
	return s
}

// Close 取消订阅
func (s *BestPathSystem) Close() {
	s.bus.Unsubscribe(s.sub)
}

// RecomputeFromPlayer 以玩家当前位置为起点重新计算
// 场上没有玩家时记录警告并跳过
func (s *BestPathSystem) RecomputeFromPlayer() {
	players := ecs.GetEntitiesWith2[*components.PlayerTagComponent, *components.PositionComponent](s.entityManager)
	if len(players) == 0 {
		log.Printf("[BestPathSystem] Warning: no player found, best path not computed")
		return
	}
	pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, players[0])
	cell, ok := s.grid.WorldToCell(pos.X, pos.Z)
	if !ok {
		log.Printf("[BestPathSystem] Warning: player (%.2f, %.2f) outside grid", pos.X, pos.Z)
		return
	}
	s.Recompute(cell)
}

// Recompute 从指定格子重新计算最佳路径并刷新 OnBestPath 标记
//
// 返回:
//   - int: 被标记的墙数量
func (s *BestPathSystem) Recompute(from components.Cell) int {
	for _, id := range ecs.GetEntitiesWith1[*components.ObstacleComponent](s.entityManager) {
		obstacle, _ := ecs.GetComponent[*components.ObstacleComponent](s.entityManager, id)
		obstacle.OnBestPath = false
	}

	w, h := s.grid.Width(), s.grid.Height()
	search := gridSearch{
		width:  w,
		height: h,
		cost: func(c components.Cell) (float64, bool) {
			if s.grid.IsBlocked(c.X, c.Z) {
				return s.penalty, true
			}
			return 1, true
		},
		goal: func(c components.Cell) bool {
			return c.X == 0 || c.Z == 0 || c.X == w-1 || c.Z == h-1
		},
	}
	path, cost, ok := search.run(from)
	if !ok {
		s.corridor = nil
		return 0
	}
	s.corridor = path

	flagged := 0
	for _, c := range path {
		if !s.grid.IsBlocked(c.X, c.Z) {
			continue
		}
		obstacle, ok := ecs.GetComponent[*components.ObstacleComponent](s.entityManager, s.grid.Occupant(c.X, c.Z))
		if !ok {
			continue
		}
		obstacle.OnBestPath = true
		flagged++
	}
	log.Printf("[BestPathSystem] Best path from (%d, %d): %d cells, cost %.1f, %d walls flagged", from.X, from.Z, len(path), cost, flagged)
	return flagged
}

// Corridor 返回上一次计算的路径（只读）
func (s *BestPathSystem) Corridor() []components.Cell {
	return s.corridor
}

// NearestBestPathObstacle 离 (x, z) 最近的存活最佳路径墙，跳过 exclude
func (s *BestPathSystem) NearestBestPathObstacle(x, z float64, exclude ecs.EntityID) (ecs.EntityID, bool) {
	return nearestObstacle(s.entityManager, x, z, math.Inf(1), exclude, true)
}

// nearestObstacle 在半径内寻找最近的存活阻挡障碍物
// bestPathOnly 为 true 时只考虑 OnBestPath 的障碍物
func nearestObstacle(em *ecs.EntityManager, x, z, radius float64, exclude ecs.EntityID, bestPathOnly bool) (ecs.EntityID, bool) {
	var (
		best  ecs.EntityID
		bestD = math.Inf(1)
	)
	for _, id := range ecs.GetEntitiesWith3[*components.ObstacleComponent, *components.HealthComponent, *components.PositionComponent](em) {
		if id == exclude {
			continue
		}
		obstacle, _ := ecs.GetComponent[*components.ObstacleComponent](em, id)
		if !obstacle.Blocking || (bestPathOnly && !obstacle.OnBestPath) {
			continue
		}
		health, _ := ecs.GetComponent[*components.HealthComponent](em, id)
		if !health.IsAlive() {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		d := utils.Distance(x, z, pos.X, pos.Z)
		if d <= radius && d < bestD {
			best, bestD = id, d
		}
	}
	return best, best != 0
}

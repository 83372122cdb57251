package components

// ObstacleKind 可放置障碍物类型
type ObstacleKind int

const (
	// ObstacleWall 墙：阻挡寻路，可被敌人攻击
	ObstacleWall ObstacleKind = iota
	// ObstacleLandmine 地雷：占用格子但可通行，敌人进入后引爆
	ObstacleLandmine
)

// String 返回障碍物类型名称（用于日志和配置键）
func (k ObstacleKind) String() string {
	switch k {
	case ObstacleWall:
		return "wall"
	case ObstacleLandmine:
		return "landmine"
	default:
		return "unknown"
	}
}

// ObstacleComponent 放置在网格上的障碍物
//
// Cell 是该障碍物占用的格子，销毁时必须通过 GridSystem.Release 释放
type ObstacleComponent struct {
	Kind ObstacleKind
	Cell Cell

	// Blocking 是否阻挡寻路（墙为 true，地雷为 false）
	Blocking bool

	// OnBestPath 是否位于本轮防守开始时计算的最佳路径走廊上
	OnBestPath bool
}

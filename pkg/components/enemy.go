package components

import "github.com/decker502/zombie-defense/pkg/ecs"

// EnemyState 近战敌人的 AI 状态
type EnemyState int

const (
	// EnemyCheckPath 计算到玩家的路径，决定追击还是寻找障碍物（初始状态）
	EnemyCheckPath EnemyState = iota
	// EnemyChasePlayer 沿路径追击玩家
	EnemyChasePlayer
	// EnemyFindObstacle 寻找阻挡路线的障碍物
	EnemyFindObstacle
	// EnemyMoveToObstacle 移动到目标障碍物附近
	EnemyMoveToObstacle
	// EnemyAttackObstacle 攻击目标障碍物
	EnemyAttackObstacle
	// EnemyAttackPlayer 攻击玩家
	EnemyAttackPlayer
)

// String 返回状态名称（用于日志）
func (s EnemyState) String() string {
	switch s {
	case EnemyCheckPath:
		return "CheckPath"
	case EnemyChasePlayer:
		return "ChasePlayer"
	case EnemyFindObstacle:
		return "FindObstacle"
	case EnemyMoveToObstacle:
		return "MoveToObstacle"
	case EnemyAttackObstacle:
		return "AttackObstacle"
	case EnemyAttackPlayer:
		return "AttackPlayer"
	default:
		return "Unknown"
	}
}

// EnemyComponent 近战敌人的 AI 数据
//
// Target 是对障碍物的弱引用：敌人不拥有障碍物的生命周期，
// 每次使用前必须通过 EntityManager.IsAlive 和生命值校验
type EnemyComponent struct {
	State EnemyState

	// Target 当前障碍物目标（0 表示无目标）
	Target ecs.EntityID

	// Abandoned 因卡住而放弃的障碍物，下一次寻找时跳过
	Abandoned ecs.EntityID

	// AttackCooldown 距下次可攻击的剩余时间（秒），对玩家和障碍物共享
	AttackCooldown float64

	// StuckTime 移动向障碍物时累计的无进展时间（秒）
	StuckTime float64

	// RecheckTime 距上次重新检查玩家路径的时间（秒）
	RecheckTime float64

	// ChaseX/ChaseZ 上一次下发追击目的地时玩家的位置
	ChaseX, ChaseZ float64

	// NavVersion 上一次计算路径时导航网格的版本
	NavVersion int
}

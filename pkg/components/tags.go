package components

// EnemyTagComponent 标记敌人实体，用于波次对账时统计场上存活敌人
type EnemyTagComponent struct{}

// PlayerTagComponent 标记玩家实体
type PlayerTagComponent struct{}

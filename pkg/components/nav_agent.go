package components

// NavAgentComponent 沿导航路径移动的实体
// 用于敌人；路径由 NavMeshSystem 计算，MovementSystem 负责推进
type NavAgentComponent struct {
	Speed float64 // 移动速度（世界单位/秒）

	// Path 剩余路径点（格子），到达后依次弹出
	Path []Cell

	// DestX/DestZ 最终目标点，路径走完后直接朝此点移动
	DestX, DestZ float64
	HasDest      bool

	// StopDistance 距目标点小于此距离时停止
	StopDistance float64

	// Moved 上一次更新中实际移动的距离，用于卡住检测
	Moved float64
}

// Stop 清空路径并停止移动
func (a *NavAgentComponent) Stop() {
	a.Path = nil
	a.HasDest = false
	a.Moved = 0
}

package game

// ResourcePool 玩家的建造资源（即回合得分）
// 只有放置系统（Spend）和得分系统（Set/Add）修改它，其余组件只读
type ResourcePool struct {
	amount int
}

// NewResourcePool 创建资源池
func NewResourcePool(initial int) *ResourcePool {
	if initial < 0 {
		initial = 0
	}
	return &ResourcePool{amount: initial}
}

// Amount 当前资源数量
func (p *ResourcePool) Amount() int {
	return p.amount
}

// CanAfford 资源是否足够
func (p *ResourcePool) CanAfford(cost int) bool {
	return cost <= p.amount
}

// Spend 扣除资源，不足时返回 false 且不修改
func (p *ResourcePool) Spend(cost int) bool {
	if cost < 0 || cost > p.amount {
		return false
	}
	p.amount -= cost
	return true
}

// Add 增加资源（负数忽略）
func (p *ResourcePool) Add(n int) {
	if n > 0 {
		p.amount += n
	}
}

// Set 设置资源数量（下限为 0）
func (p *ResourcePool) Set(n int) {
	if n < 0 {
		n = 0
	}
	p.amount = n
}

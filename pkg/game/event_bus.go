package game

import (
	"log"

	"github.com/decker502/zombie-defense/pkg/ecs"
)

// Signal 事件总线上的信号类型
type Signal int

const (
	SignalBuildStart Signal = iota
	SignalBuildStop
	SignalBuildSkip
	SignalDefenseStart
	SignalDefenseStop
	SignalChooseCard
	SignalChooseCardEnd
	SignalCardChosen
	SignalPaused
	SignalUnpaused
	SignalPhaseChanged
	SignalEnemyDied
	SignalObstacleDestroyed
	SignalPlayerDamaged
	SignalPlayerDied
	SignalVictory
	SignalGameOver
)

var signalNames = map[Signal]string{
	SignalBuildStart:        "BuildStart",
	SignalBuildStop:         "BuildStop",
	SignalBuildSkip:         "BuildSkip",
	SignalDefenseStart:      "DefenseStart",
	SignalDefenseStop:       "DefenseStop",
	SignalChooseCard:        "ChooseCard",
	SignalChooseCardEnd:     "ChooseCardEnd",
	SignalCardChosen:        "CardChosen",
	SignalPaused:            "Paused",
	SignalUnpaused:          "Unpaused",
	SignalPhaseChanged:      "PhaseChanged",
	SignalEnemyDied:         "EnemyDied",
	SignalObstacleDestroyed: "ObstacleDestroyed",
	SignalPlayerDamaged:     "PlayerDamaged",
	SignalPlayerDied:        "PlayerDied",
	SignalVictory:           "Victory",
	SignalGameOver:          "GameOver",
}

// String 返回信号名称（用于日志）
func (s Signal) String() string {
	if name, ok := signalNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Event 总线上传递的事件
// 只有与信号相关的字段有意义，其余为零值
type Event struct {
	Signal Signal

	// Entity 相关实体（死亡的敌人、被摧毁的障碍物、受伤的玩家）
	// 处理函数返回后实体可能立即被销毁，不得长期持有
	Entity ecs.EntityID

	// Amount 数值负载（伤害量等）
	Amount float64

	// Card 选中的卡牌名称（CardChosen）
	Card string

	// From/To 阶段变化（PhaseChanged）
	From, To Phase
}

// Handler 事件处理函数
type Handler func(Event)

// Subscription 订阅句柄，用于取消订阅
type Subscription struct {
	id     uint64
	signal Signal
}

type subscriber struct {
	id      uint64
	handler Handler
}

// maxFlushRounds 单次 Flush 中处理"投递引发的投递"的最大轮数
const maxFlushRounds = 64

// EventBus 单局游戏的发布/订阅中心
//
// 生命周期：
//   - 每局游戏由 Session 创建一次
//   - Close() 后所有订阅被丢弃，之后的 Publish/Post 为空操作
//
// 投递方式：
//   - Publish: 同步投递，遍历订阅者快照（处理函数中订阅/取消订阅不影响本次投递）
//   - Post: 延迟投递，在 tick 末尾 Flush 时按顺序送达
//     用于阶段切换类信号，保证同一 tick 内所有实体看到相同的阶段
type EventBus struct {
	subscribers map[Signal][]subscriber
	queue       []Event
	nextID      uint64
	closed      bool
}

// NewEventBus 创建事件总线
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[Signal][]subscriber),
		nextID:      1,
	}
}

// Subscribe 订阅信号
// 返回:
//   - Subscription: 订阅句柄（总线已关闭时返回零值句柄）
func (b *EventBus) Subscribe(signal Signal, handler Handler) Subscription {
	if b.closed || handler == nil {
		return Subscription{}
	}
	id := b.nextID
	b.nextID++
	b.subscribers[signal] = append(b.subscribers[signal], subscriber{id: id, handler: handler})
	return Subscription{id: id, signal: signal}
}

// Unsubscribe 取消订阅，重复取消或零值句柄为空操作
func (b *EventBus) Unsubscribe(sub Subscription) {
	if sub.id == 0 {
		return
	}
	subs := b.subscribers[sub.signal]
	for i, s := range subs {
		if s.id == sub.id {
			// 复制而非原地修改：正在进行的 Publish 持有旧切片快照
			next := make([]subscriber, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			b.subscribers[sub.signal] = next
			return
		}
	}
}

// Publish 同步投递事件
func (b *EventBus) Publish(ev Event) {
	if b.closed {
		return
	}
	snapshot := b.subscribers[ev.Signal]
	for _, s := range snapshot {
		s.handler(ev)
	}
}

// Post 将事件加入队列，在下一次 Flush 时投递
func (b *EventBus) Post(ev Event) {
	if b.closed {
		return
	}
	b.queue = append(b.queue, ev)
}

// Flush 投递所有排队事件
// 投递过程中新 Post 的事件在同一次 Flush 中继续投递
func (b *EventBus) Flush() {
	for round := 0; len(b.queue) > 0; round++ {
		if round >= maxFlushRounds {
			log.Printf("[EventBus] Warning: flush exceeded %d rounds, %d events deferred to next tick", maxFlushRounds, len(b.queue))
			return
		}
		pending := b.queue
		b.queue = nil
		for _, ev := range pending {
			b.Publish(ev)
		}
	}
}

// Pending 返回排队中的事件数
func (b *EventBus) Pending() int {
	return len(b.queue)
}

// SubscriberCount 返回指定信号的订阅者数量
func (b *EventBus) SubscriberCount(signal Signal) int {
	return len(b.subscribers[signal])
}

// TotalSubscribers 返回所有信号的订阅者总数（用于检测订阅泄漏）
func (b *EventBus) TotalSubscribers() int {
	total := 0
	for _, subs := range b.subscribers {
		total += len(subs)
	}
	return total
}

// Close 关闭总线并丢弃所有订阅和排队事件
func (b *EventBus) Close() {
	b.closed = true
	b.subscribers = make(map[Signal][]subscriber)
	b.queue = nil
}

// IsClosed 总线是否已关闭
func (b *EventBus) IsClosed() bool {
	return b.closed
}

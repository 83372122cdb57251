package game

import (
	"errors"
	"fmt"
	"log"
)

// Phase 全局游戏阶段
type Phase int

const (
	PhaseMainMenu Phase = iota
	PhaseBuilding
	PhaseDefending
	PhaseChooseCard
	PhasePaused
)

// String 返回阶段名称
func (p Phase) String() string {
	switch p {
	case PhaseMainMenu:
		return "MainMenu"
	case PhaseBuilding:
		return "Building"
	case PhaseDefending:
		return "Defending"
	case PhaseChooseCard:
		return "ChooseCard"
	case PhasePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// ErrIllegalTransition 请求的阶段切换不在转换表中
var ErrIllegalTransition = errors.New("illegal phase transition")

// transitions 合法的阶段转换表（暂停单独处理）
var transitions = map[Phase][]Phase{
	PhaseMainMenu:   {PhaseBuilding},
	PhaseBuilding:   {PhaseDefending},
	PhaseDefending:  {PhaseChooseCard, PhaseBuilding},
	PhaseChooseCard: {PhaseBuilding},
}

// CanTransition 检查 from -> to 是否为合法转换（不含暂停/恢复）
func CanTransition(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// PhaseCoordinator 阶段协调器
//
// 职责：
//   - 持有唯一的当前阶段值，只能通过 Request/Pause/Resume 修改
//   - 订阅 BuildStart/DefenseStart/ChooseCard/Paused/Unpaused 信号驱动阶段切换
//   - 进入阶段前执行注册的前置钩子（进入 Defending 前重建导航网格）
//   - 每次切换成功后发布 PhaseChanged
//
// 转换表：
//
//	MainMenu -> Building -> Defending -> ChooseCard -> Building
//	Defending -> Building（卡牌关闭时）
//	任意非暂停阶段 -> Paused -> 被打断的阶段
type PhaseCoordinator struct {
	bus         *EventBus
	phase       Phase
	interrupted Phase // 暂停前的阶段
	preEnter    map[Phase][]func()
	subs        []Subscription
}

// NewPhaseCoordinator 创建阶段协调器，初始阶段为 MainMenu
func NewPhaseCoordinator(bus *EventBus) *PhaseCoordinator {
	pc := &PhaseCoordinator{
		bus:      bus,
		phase:    PhaseMainMenu,
		preEnter: make(map[Phase][]func()),
	}

	pc.subs = append(pc.subs,
		bus.Subscribe(SignalBuildStart, func(Event) { pc.requestFromSignal(PhaseBuilding) }),
		bus.Subscribe(SignalDefenseStart, func(Event) { pc.requestFromSignal(PhaseDefending) }),
		bus.Subscribe(SignalChooseCard, func(Event) { pc.requestFromSignal(PhaseChooseCard) }),
		bus.Subscribe(SignalPaused, func(Event) {
			if err := pc.Pause(); err != nil {
				log.Printf("[PhaseCoordinator] Warning: %v", err)
			}
		}),
		bus.Subscribe(SignalUnpaused, func(Event) {
			if err := pc.Resume(); err != nil {
				log.Printf("[PhaseCoordinator] Warning: %v", err)
			}
		}),
	)

	return pc
}

func (pc *PhaseCoordinator) requestFromSignal(to Phase) {
	if err := pc.Request(to); err != nil {
		log.Printf("[PhaseCoordinator] Warning: %v", err)
	}
}

// Phase 返回当前阶段
func (pc *PhaseCoordinator) Phase() Phase {
	return pc.phase
}

// Is 当前是否处于指定阶段
func (pc *PhaseCoordinator) Is(p Phase) bool {
	return pc.phase == p
}

// OnBeforeEnter 注册进入指定阶段前执行的钩子
// 钩子在阶段值改变之前同步执行，按注册顺序调用
func (pc *PhaseCoordinator) OnBeforeEnter(p Phase, hook func()) {
	pc.preEnter[p] = append(pc.preEnter[p], hook)
}

// Request 请求切换到指定阶段
// 返回:
//   - error: 转换不合法时返回包装了 ErrIllegalTransition 的错误，阶段不变
func (pc *PhaseCoordinator) Request(to Phase) error {
	if to == PhasePaused {
		return pc.Pause()
	}
	if !CanTransition(pc.phase, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, pc.phase, to)
	}
	pc.enter(to)
	return nil
}

// Pause 暂停，记录被打断的阶段
func (pc *PhaseCoordinator) Pause() error {
	if pc.phase == PhasePaused {
		return fmt.Errorf("%w: already paused", ErrIllegalTransition)
	}
	pc.interrupted = pc.phase
	pc.enter(PhasePaused)
	return nil
}

// Resume 恢复到暂停前的阶段（不重复执行前置钩子）
func (pc *PhaseCoordinator) Resume() error {
	if pc.phase != PhasePaused {
		return fmt.Errorf("%w: resume while %s", ErrIllegalTransition, pc.phase)
	}
	from := pc.phase
	pc.phase = pc.interrupted
	log.Printf("[PhaseCoordinator] %s -> %s", from, pc.phase)
	pc.bus.Publish(Event{Signal: SignalPhaseChanged, From: from, To: pc.phase})
	return nil
}

// Interrupted 返回暂停前的阶段（仅在 Paused 时有意义）
func (pc *PhaseCoordinator) Interrupted() Phase {
	return pc.interrupted
}

func (pc *PhaseCoordinator) enter(to Phase) {
	for _, hook := range pc.preEnter[to] {
		hook()
	}
	from := pc.phase
	pc.phase = to
	log.Printf("[PhaseCoordinator] %s -> %s", from, to)
	pc.bus.Publish(Event{Signal: SignalPhaseChanged, From: from, To: to})
}

// Close 取消协调器的所有订阅
func (pc *PhaseCoordinator) Close() {
	for _, sub := range pc.subs {
		pc.bus.Unsubscribe(sub)
	}
	pc.subs = nil
}

// Entered 事件是否表示刚进入阶段 p（从暂停恢复不算进入）
func (e Event) Entered(p Phase) bool {
	return e.Signal == SignalPhaseChanged && e.To == p && e.From != PhasePaused
}

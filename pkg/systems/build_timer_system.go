package systems

import (
	"log"

	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/game"
)

// BuildTimerSystem 建造阶段倒计时
//
// 进入 Building 时开始倒计时；归零后发布 BuildStop，
// 再等待 endDelay 秒后请求 DefenseStart。
// BuildSkip 取消倒计时和待执行的延迟任务，立即请求 DefenseStart。
type BuildTimerSystem struct {
	bus       *game.EventBus
	scheduler *game.Scheduler
	phase     *game.PhaseCoordinator
	config    *config.BuildConfig

	remaining float64
	running   bool
	requested bool // 本轮已请求 DefenseStart
	subs      []game.Subscription
}

// NewBuildTimerSystem 创建建造倒计时系统
func NewBuildTimerSystem(bus *game.EventBus, scheduler *game.Scheduler, phase *game.PhaseCoordinator, cfg *config.BuildConfig) *BuildTimerSystem {
	s := &BuildTimerSystem{
		bus:       bus,
		scheduler: scheduler,
		phase:     phase,
		config:    cfg,
	}
	s.subs = append(s.subs,
		bus.Subscribe(game.SignalPhaseChanged, func(ev game.Event) {
			if ev.Entered(game.PhaseBuilding) {
				s.Start()
			}
		}),
		bus.Subscribe(game.SignalBuildSkip, func(game.Event) {
			s.Skip()
		}),
	)
	return s
}

// Close 取消订阅和待执行任务
func (s *BuildTimerSystem) Close() {
	for _, sub := range s.subs {
		s.bus.Unsubscribe(sub)
	}
	s.subs = nil
	s.scheduler.CancelOwner(s)
}

// Start 开始新一轮倒计时
func (s *BuildTimerSystem) Start() {
	s.scheduler.CancelOwner(s)
	s.remaining = s.config.Duration
	s.running = true
	s.requested = false
	log.Printf("[BuildTimerSystem] Build phase started, %.0fs", s.remaining)
}

// Update 推进倒计时（只在 Building 阶段）
func (s *BuildTimerSystem) Update(dt float64) {
	if !s.running || !s.phase.Is(game.PhaseBuilding) {
		return
	}
	s.remaining -= dt
	if s.remaining > 0 {
		return
	}
	s.remaining = 0
	s.running = false
	s.bus.Publish(game.Event{Signal: game.SignalBuildStop})
	s.scheduler.After(s, s.config.EndDelay, s.requestDefense)
}

// Skip 提前结束建造阶段
// 非 Building 阶段或本轮已请求过时忽略
func (s *BuildTimerSystem) Skip() {
	if !s.phase.Is(game.PhaseBuilding) || s.requested {
		return
	}
	s.scheduler.CancelOwner(s)
	if s.running {
		s.running = false
		s.bus.Publish(game.Event{Signal: game.SignalBuildStop})
	}
	log.Printf("[BuildTimerSystem] Build phase skipped with %.1fs left", s.remaining)
	s.remaining = 0
	s.requestDefense()
}

func (s *BuildTimerSystem) requestDefense() {
	if s.requested {
		return
	}
	s.requested = true
	s.bus.Post(game.Event{Signal: game.SignalDefenseStart})
}

// Remaining 倒计时剩余秒数
func (s *BuildTimerSystem) Remaining() float64 {
	return s.remaining
}

// IsRunning 倒计时是否在进行
func (s *BuildTimerSystem) IsRunning() bool {
	return s.running
}

package systems

import (
	"log"

	"github.com/decker502/zombie-defense/pkg/game"
)

// DayTrackerSystem 天数与胜负
//
// 每次进入 Building 计为新的一天；到达 daysToWin 时发布 Victory。
// 玩家死亡时发布 GameOver。两种结局都只记录一次进度。
type DayTrackerSystem struct {
	bus       *game.EventBus
	store     *game.ProgressStore
	daysToWin int

	day      int
	kills    int
	finished bool
	won      bool
	subs     []game.Subscription
}

// NewDayTrackerSystem 创建天数系统
// store 为 nil 时不记录进度
func NewDayTrackerSystem(bus *game.EventBus, store *game.ProgressStore, daysToWin int) *DayTrackerSystem {
	s := &DayTrackerSystem{
		bus:       bus,
		store:     store,
		daysToWin: daysToWin,
	}
	s.subs = append(s.subs,
		bus.Subscribe(game.SignalPhaseChanged, func(ev game.Event) {
			if ev.Entered(game.PhaseBuilding) {
				s.nextDay()
			}
		}),
		bus.Subscribe(game.SignalEnemyDied, func(game.Event) {
			s.kills++
		}),
		bus.Subscribe(game.SignalPlayerDied, func(game.Event) {
			s.finish(false)
		}),
	)
	return s
}

// Close 取消订阅
func (s *DayTrackerSystem) Close() {
	for _, sub := range s.subs {
		s.bus.Unsubscribe(sub)
	}
	s.subs = nil
}

func (s *DayTrackerSystem) nextDay() {
	if s.finished {
		return
	}
	s.day++
	log.Printf("[DayTrackerSystem] Day %d/%d", s.day, s.daysToWin)
	if s.day >= s.daysToWin {
		s.finish(true)
	}
}

func (s *DayTrackerSystem) finish(won bool) {
	if s.finished {
		return
	}
	s.finished = true
	s.won = won

	if s.store != nil {
		if err := s.store.RecordGame(s.day, s.kills, won); err != nil {
			log.Printf("[DayTrackerSystem] Warning: failed to record progress: %v", err)
		}
	}

	if won {
		log.Printf("[DayTrackerSystem] Victory on day %d (%d kills)", s.day, s.kills)
		s.bus.Publish(game.Event{Signal: game.SignalVictory})
	} else {
		log.Printf("[DayTrackerSystem] Game over on day %d (%d kills)", s.day, s.kills)
		s.bus.Publish(game.Event{Signal: game.SignalGameOver})
	}
}

// Day 当前天数（第一个建造阶段为第 1 天）
func (s *DayTrackerSystem) Day() int { return s.day }

// Kills 本局累计击杀
func (s *DayTrackerSystem) Kills() int { return s.kills }

// IsFinished 本局是否已结束
func (s *DayTrackerSystem) IsFinished() bool { return s.finished }

// Won 本局是否胜利（仅在结束后有意义）
func (s *DayTrackerSystem) Won() bool { return s.won }

package systems

import (
	"log"
	"math"

	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/game"
)

// ScoreSystem 回合得分
//
// 进入 Defending 时清零击杀数和受伤标记，资源池归零；
// 收到 DefenseStop 时结算：
//
//	score = round(bonus + kills*killValue - max(0, duration/durationDivisor))
//
// bonus 未受伤为 undamagedBonus，受伤为 damagedBonus，结果下限为 0，
// 并作为下一个建造阶段的资源。
type ScoreSystem struct {
	bus       *game.EventBus
	scheduler *game.Scheduler
	pool      *game.ResourcePool
	config    *config.ScoreConfig

	kills      int
	totalKills int
	damaged    bool
	startedAt  float64
	lastScore  int
	subs       []game.Subscription
}

// NewScoreSystem 创建得分系统
func NewScoreSystem(bus *game.EventBus, scheduler *game.Scheduler, pool *game.ResourcePool, cfg *config.ScoreConfig) *ScoreSystem {
	s := &ScoreSystem{
		bus:       bus,
		scheduler: scheduler,
		pool:      pool,
		config:    cfg,
	}
	s.subs = append(s.subs,
		bus.Subscribe(game.SignalPhaseChanged, func(ev game.Event) {
			if ev.Entered(game.PhaseDefending) {
				s.beginRound()
			}
		}),
		bus.Subscribe(game.SignalEnemyDied, func(game.Event) {
			s.kills++
			s.totalKills++
		}),
		bus.Subscribe(game.SignalPlayerDamaged, func(game.Event) {
			s.damaged = true
		}),
		bus.Subscribe(game.SignalDefenseStop, func(game.Event) {
			s.settle()
		}),
	)
	return s
}

// Close 取消订阅
func (s *ScoreSystem) Close() {
	for _, sub := range s.subs {
		s.bus.Unsubscribe(sub)
	}
	s.subs = nil
}

func (s *ScoreSystem) beginRound() {
	s.kills = 0
	s.damaged = false
	s.startedAt = s.scheduler.Now()
	s.pool.Set(0)
}

func (s *ScoreSystem) settle() {
	duration := s.scheduler.Now() - s.startedAt
	s.lastScore = RoundScore(s.config, s.kills, s.damaged, duration)
	s.pool.Set(s.lastScore)
	log.Printf("[ScoreSystem] Round settled: kills=%d damaged=%v duration=%.1fs score=%d", s.kills, s.damaged, duration, s.lastScore)
}

// RoundScore 按公式计算回合得分
func RoundScore(cfg *config.ScoreConfig, kills int, damaged bool, duration float64) int {
	bonus := cfg.UndamagedBonus
	if damaged {
		bonus = cfg.DamagedBonus
	}
	penalty := 0.0
	if cfg.DurationDivisor > 0 {
		penalty = math.Max(0, duration/cfg.DurationDivisor)
	}
	score := int(math.Round(bonus + float64(kills)*cfg.KillValue - penalty))
	if score < 0 {
		score = 0
	}
	return score
}

// Kills 本回合击杀数
func (s *ScoreSystem) Kills() int { return s.kills }

// TotalKills 本局累计击杀数
func (s *ScoreSystem) TotalKills() int { return s.totalKills }

// Damaged 本回合玩家是否受过伤
func (s *ScoreSystem) Damaged() bool { return s.damaged }

// LastScore 上一次结算的得分
func (s *ScoreSystem) LastScore() int { return s.lastScore }

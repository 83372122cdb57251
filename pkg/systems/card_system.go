package systems

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/game"
)

var (
	// ErrNoHand 当前没有可选的卡牌
	ErrNoHand = errors.New("no cards dealt")
	// ErrCardIndex 选择的下标越界
	ErrCardIndex = errors.New("card index out of range")
)

// defaultEmptyCard 卡组没有配置空卡时使用
var defaultEmptyCard = config.CardDef{Name: "Empty", MaxSpawns: config.InfiniteSpawns}

// CardSystem 回合间的升级卡
//
// 职责：
//   - 进入 ChooseCard 时发牌：totalCards 张中随机一张为升级卡，其余为空卡
//   - 升级卡按稀有度概率抽取（standard/utility/rare），该稀有度无可用卡时回退到 utility
//   - 每张卡最多出现 maxSpawns 次（-1 为无限）
//   - Choose 应用一个确定的属性修改，发布 CardChosen、ChooseCardEnd，并请求 BuildStart
type CardSystem struct {
	entityManager *ecs.EntityManager
	bus           *game.EventBus
	phase         *game.PhaseCoordinator
	config        *config.GameConfig
	deck          *config.CardDeckConfig
	damage        *DamageSystem
	pool          *game.ResourcePool
	rng           *rand.Rand

	hand    []config.CardDef
	spawned map[string]int
	sub     game.Subscription
}

// NewCardSystem 创建卡牌系统
func NewCardSystem(em *ecs.EntityManager, bus *game.EventBus, phase *game.PhaseCoordinator, cfg *config.GameConfig, deck *config.CardDeckConfig, damage *DamageSystem, pool *game.ResourcePool, rng *rand.Rand) *CardSystem {
	s := &CardSystem{
		entityManager: em,
		bus:           bus,
		phase:         phase,
		config:        cfg,
		deck:          deck,
		damage:        damage,
		pool:          pool,
		rng:           rng,
		spawned:       make(map[string]int),
	}
	s.sub = bus.Subscribe(game.SignalPhaseChanged, func(ev game.Event) {
		if ev.Entered(game.PhaseChooseCard) {
			s.Deal()
		}
	})
	return s
}

// Close 取消订阅
func (s *CardSystem) Close() {
	s.bus.Unsubscribe(s.sub)
}

// Hand 当前手牌（只读）
func (s *CardSystem) Hand() []config.CardDef {
	return s.hand
}

// Deal 发一手新牌
func (s *CardSystem) Deal() []config.CardDef {
	total := s.config.Cards.TotalCards
	if total <= 0 {
		total = 1
	}
	upgradeSlot := s.rng.Intn(total)

	s.hand = make([]config.CardDef, total)
	for i := range s.hand {
		if i == upgradeSlot {
			s.hand[i] = s.drawUpgrade()
		} else {
			s.hand[i] = s.drawEmpty()
		}
		s.spawned[s.hand[i].Name]++
	}
	log.Printf("[CardSystem] Dealt %d cards, upgrade %q in slot %d", total, s.hand[upgradeSlot].Name, upgradeSlot)
	return s.hand
}

// rollRarity 按配置概率抽取稀有度
func (s *CardSystem) rollRarity() string {
	c := s.config.Cards
	r := s.rng.Float64() * (c.StandardChance + c.UtilityChance + c.RareChance)
	switch {
	case r < c.StandardChance:
		return config.RarityStandard
	case r < c.StandardChance+c.UtilityChance:
		return config.RarityUtility
	default:
		return config.RarityRare
	}
}

func (s *CardSystem) drawUpgrade() config.CardDef {
	rarity := s.rollRarity()
	for _, r := range []string{rarity, config.RarityUtility, config.RarityStandard, config.RarityRare} {
		if candidates := s.available(s.deck.UpgradesByRarity(r), s.deck.Upgrades); len(candidates) > 0 {
			return s.deck.Upgrades[candidates[s.rng.Intn(len(candidates))]]
		}
	}
	log.Printf("[CardSystem] Warning: every upgrade card is exhausted, dealing an empty card")
	return s.drawEmpty()
}

func (s *CardSystem) drawEmpty() config.CardDef {
	all := make([]int, len(s.deck.Empty))
	for i := range all {
		all[i] = i
	}
	candidates := s.available(all, s.deck.Empty)
	if len(candidates) == 0 {
		return defaultEmptyCard
	}
	return s.deck.Empty[candidates[s.rng.Intn(len(candidates))]]
}

// available 过滤掉已达到出现上限的卡
func (s *CardSystem) available(indices []int, cards []config.CardDef) []int {
	result := make([]int, 0, len(indices))
	for _, i := range indices {
		card := cards[i]
		if card.MaxSpawns == config.InfiniteSpawns || s.spawned[card.Name] < card.MaxSpawns {
			result = append(result, i)
		}
	}
	return result
}

// Choose 选择一张卡并结束选卡阶段
//
// 返回:
//   - config.CardDef: 被选中的卡
//   - error: 不在 ChooseCard 阶段、没有手牌或下标越界
func (s *CardSystem) Choose(index int) (config.CardDef, error) {
	if s.phase != nil && !s.phase.Is(game.PhaseChooseCard) {
		return config.CardDef{}, fmt.Errorf("choose card while %s: %w", s.phase.Phase(), ErrNoHand)
	}
	if len(s.hand) == 0 {
		return config.CardDef{}, ErrNoHand
	}
	if index < 0 || index >= len(s.hand) {
		return config.CardDef{}, fmt.Errorf("%w: %d (hand size %d)", ErrCardIndex, index, len(s.hand))
	}

	card := s.hand[index]
	s.hand = nil
	s.Apply(card)

	log.Printf("[CardSystem] Chose %q (%s %+.0f)", card.Name, card.Effect, card.Amount)
	s.bus.Publish(game.Event{Signal: game.SignalCardChosen, Card: card.Name, Amount: card.Amount})
	s.bus.Publish(game.Event{Signal: game.SignalChooseCardEnd})
	s.bus.Post(game.Event{Signal: game.SignalBuildStart})
	return card, nil
}

// Apply 应用卡牌效果（空卡无效果）
func (s *CardSystem) Apply(card config.CardDef) {
	amount := card.Amount
	switch card.Effect {
	case "":
		return

	case config.EffectHeal:
		if id, _, ok := findPlayer(s.entityManager); ok {
			s.damage.Heal(id, amount)
		}

	case config.EffectMaxHealth:
		if health := s.playerHealth(); health != nil {
			health.MaxHealth += amount
			health.CurrentHealth += amount
		}

	case config.EffectWallHealth:
		s.config.Wall.Health += amount

	case config.EffectFortify:
		for _, id := range ecs.GetEntitiesWith2[*components.ObstacleComponent, *components.HealthComponent](s.entityManager) {
			obstacle, _ := ecs.GetComponent[*components.ObstacleComponent](s.entityManager, id)
			if obstacle.Kind != components.ObstacleWall {
				continue
			}
			health, _ := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
			health.CurrentHealth = health.MaxHealth
		}

	case config.EffectLandmineDamage:
		s.config.Landmine.Damage += amount
		for _, id := range ecs.GetEntitiesWith1[*components.LandmineComponent](s.entityManager) {
			mine, _ := ecs.GetComponent[*components.LandmineComponent](s.entityManager, id)
			mine.Damage += amount
		}

	case config.EffectBulletDamage:
		s.config.Player.BulletDamage += amount
		if player := s.player(); player != nil {
			player.BulletDamage += amount
		}

	case config.EffectMagazine:
		n := int(amount)
		s.config.Player.Magazine += n
		if player := s.player(); player != nil {
			player.MagazineSize += n
			if !player.Reloading {
				player.Shots += n
			}
		}

	case config.EffectResources:
		s.pool.Add(int(amount))

	default:
		log.Printf("[CardSystem] Warning: unknown card effect %q", card.Effect)
	}
}

func (s *CardSystem) player() *components.PlayerComponent {
	id, _, ok := findPlayer(s.entityManager)
	if !ok {
		return nil
	}
	player, _ := ecs.GetComponent[*components.PlayerComponent](s.entityManager, id)
	return player
}

func (s *CardSystem) playerHealth() *components.HealthComponent {
	id, _, ok := findPlayer(s.entityManager)
	if !ok {
		return nil
	}
	health, _ := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
	return health
}


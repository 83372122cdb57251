package systems

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/game"
)

type cardFixture struct {
	*testWorld
	cards  *CardSystem
	damage *DamageSystem
	player ecs.EntityID
}

func newCardFixture(t *testing.T, deck *config.CardDeckConfig) *cardFixture {
	t.Helper()
	w := newTestWorld(t, 20)
	if deck == nil {
		deck = config.DefaultCardDeck()
	}
	damage := NewDamageSystem(w.em, w.bus, w.grid)
	f := &cardFixture{
		testWorld: w,
		damage:    damage,
		cards:     NewCardSystem(w.em, w.bus, w.phase, w.cfg, deck, damage, w.pool, rand.New(rand.NewSource(7))),
		player:    w.spawnPlayer(t, components.Cell{X: 10, Z: 10}),
	}
	return f
}

// enterChooseCard 经 Defending 进入选卡阶段（触发发牌）
func (f *cardFixture) enterChooseCard(t *testing.T) {
	t.Helper()
	f.enterDefending(t)
	if err := f.phase.Request(game.PhaseChooseCard); err != nil {
		t.Fatalf("failed to enter ChooseCard: %v", err)
	}
}

func upgradesIn(hand []config.CardDef) int {
	n := 0
	for _, c := range hand {
		if c.Effect != "" {
			n++
		}
	}
	return n
}

// TestDealOneUpgrade 每手牌 totalCards 张，恰好一张升级卡
func TestDealOneUpgrade(t *testing.T) {
	f := newCardFixture(t, nil)
	for round := 0; round < 10; round++ {
		hand := f.cards.Deal()
		if len(hand) != f.cfg.Cards.TotalCards {
			t.Fatalf("round %d: hand size %d, want %d", round, len(hand), f.cfg.Cards.TotalCards)
		}
		if n := upgradesIn(hand); n != 1 {
			t.Errorf("round %d: %d upgrade cards, want 1", round, n)
		}
	}
}

// TestDealOnEnteringChooseCard 进入选卡阶段自动发牌
func TestDealOnEnteringChooseCard(t *testing.T) {
	f := newCardFixture(t, nil)
	if len(f.cards.Hand()) != 0 {
		t.Fatal("no hand before ChooseCard")
	}
	f.enterChooseCard(t)
	if len(f.cards.Hand()) != 3 {
		t.Errorf("hand size: got %d, want 3", len(f.cards.Hand()))
	}
}

// TestDealRespectsMaxSpawns 稀有度没有可用卡时回退到其他稀有度
func TestDealRespectsMaxSpawns(t *testing.T) {
	deck := &config.CardDeckConfig{
		Upgrades: []config.CardDef{
			{Name: "Once", Rarity: config.RarityRare, Effect: config.EffectResources, Amount: 1, MaxSpawns: 1},
			{Name: "Always", Rarity: config.RarityUtility, Effect: config.EffectResources, Amount: 1, MaxSpawns: config.InfiniteSpawns},
		},
		Empty: []config.CardDef{{Name: "Empty", MaxSpawns: config.InfiniteSpawns}},
	}
	f := newCardFixture(t, deck)
	f.cfg.Cards.StandardChance = 0
	f.cfg.Cards.UtilityChance = 0
	f.cfg.Cards.RareChance = 1

	names := []string{}
	for i := 0; i < 3; i++ {
		for _, c := range f.cards.Deal() {
			if c.Effect != "" {
				names = append(names, c.Name)
			}
		}
	}
	want := []string{"Once", "Always", "Always"}
	if len(names) != len(want) {
		t.Fatalf("upgrades dealt: got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("deal %d: got %q, want %q", i, names[i], want[i])
		}
	}
}

// TestDealExhaustedDeck 所有升级卡用尽时整手都是空卡
func TestDealExhaustedDeck(t *testing.T) {
	deck := &config.CardDeckConfig{
		Upgrades: []config.CardDef{
			{Name: "Once", Rarity: config.RarityStandard, Effect: config.EffectHeal, Amount: 1, MaxSpawns: 1},
		},
	}
	f := newCardFixture(t, deck)

	if n := upgradesIn(f.cards.Deal()); n != 1 {
		t.Fatalf("first hand: %d upgrades, want 1", n)
	}
	hand := f.cards.Deal()
	if n := upgradesIn(hand); n != 0 {
		t.Errorf("second hand: %d upgrades, want 0", n)
	}
	for _, c := range hand {
		if c.Name != "Empty" {
			t.Errorf("card %q, want the built-in empty card", c.Name)
		}
	}
}

// TestCardEffects 每种效果修改对应属性
func TestCardEffects(t *testing.T) {
	tests := []struct {
		name  string
		card  config.CardDef
		check func(t *testing.T, f *cardFixture)
	}{
		{
			name: "回复生命",
			card: config.CardDef{Effect: config.EffectHeal, Amount: 30},
			check: func(t *testing.T, f *cardFixture) {
				if h := healthOf(t, f.em, f.player); h.CurrentHealth != 80 {
					t.Errorf("health: got %v, want 80", h.CurrentHealth)
				}
			},
		},
		{
			name: "生命上限",
			card: config.CardDef{Effect: config.EffectMaxHealth, Amount: 25},
			check: func(t *testing.T, f *cardFixture) {
				h := healthOf(t, f.em, f.player)
				if h.MaxHealth != 125 || h.CurrentHealth != 75 {
					t.Errorf("health: got %v/%v, want 75/125", h.CurrentHealth, h.MaxHealth)
				}
			},
		},
		{
			name: "墙生命",
			card: config.CardDef{Effect: config.EffectWallHealth, Amount: 25},
			check: func(t *testing.T, f *cardFixture) {
				if f.cfg.Wall.Health != 125 {
					t.Errorf("wall health: got %v, want 125", f.cfg.Wall.Health)
				}
			},
		},
		{
			name: "子弹伤害",
			card: config.CardDef{Effect: config.EffectBulletDamage, Amount: 5},
			check: func(t *testing.T, f *cardFixture) {
				player, _ := playerOf(t, f.em, f.player)
				if player.BulletDamage != 15 || f.cfg.Player.BulletDamage != 15 {
					t.Errorf("bullet damage: player %v config %v, want 15", player.BulletDamage, f.cfg.Player.BulletDamage)
				}
			},
		},
		{
			name: "扩充弹匣",
			card: config.CardDef{Effect: config.EffectMagazine, Amount: 3},
			check: func(t *testing.T, f *cardFixture) {
				player, _ := playerOf(t, f.em, f.player)
				if player.MagazineSize != 12 || player.Shots != 12 {
					t.Errorf("magazine: %d/%d, want 12/12", player.Shots, player.MagazineSize)
				}
			},
		},
		{
			name: "资源",
			card: config.CardDef{Effect: config.EffectResources, Amount: 5},
			check: func(t *testing.T, f *cardFixture) {
				if f.pool.Amount() != 25 {
					t.Errorf("resources: got %d, want 25", f.pool.Amount())
				}
			},
		},
		{
			name: "空卡",
			card: config.CardDef{Name: "Empty"},
			check: func(t *testing.T, f *cardFixture) {
				if f.pool.Amount() != 20 || healthOf(t, f.em, f.player).CurrentHealth != 50 {
					t.Error("empty card should change nothing")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCardFixture(t, nil)
			f.damage.Apply(f.player, 50)
			f.cards.Apply(tt.card)
			tt.check(t, f)
		})
	}
}

// TestCardFortifyAndLandmine 修复所有墙，地雷伤害同时作用于已放置的地雷
func TestCardFortifyAndLandmine(t *testing.T) {
	f := newCardFixture(t, nil)
	wall := f.placeWall(t, 3, 3)
	p := f.grid.TryPlace(5, 5, components.ObstacleLandmine)
	if p.Result != PlacementPlaced {
		t.Fatalf("placing landmine: %s", p.Result)
	}

	f.damage.Apply(wall, 60)
	f.cards.Apply(config.CardDef{Effect: config.EffectFortify})
	if h := healthOf(t, f.em, wall); h.CurrentHealth != h.MaxHealth {
		t.Errorf("wall health after fortify: %v/%v", h.CurrentHealth, h.MaxHealth)
	}

	f.cards.Apply(config.CardDef{Effect: config.EffectLandmineDamage, Amount: 50})
	mine, _ := ecs.GetComponent[*components.LandmineComponent](f.em, p.Entity)
	if mine.Damage != 150 || f.cfg.Landmine.Damage != 150 {
		t.Errorf("landmine damage: mine %v config %v, want 150", mine.Damage, f.cfg.Landmine.Damage)
	}
}

// TestChooseCard 选卡后进入下一个建造阶段
func TestChooseCard(t *testing.T) {
	f := newCardFixture(t, nil)

	if _, err := f.cards.Choose(0); !errors.Is(err, ErrNoHand) {
		t.Errorf("choose during Building: got %v, want ErrNoHand", err)
	}

	f.enterChooseCard(t)
	chosen := countSignals(f.bus, game.SignalCardChosen)
	ended := countSignals(f.bus, game.SignalChooseCardEnd)

	if _, err := f.cards.Choose(3); !errors.Is(err, ErrCardIndex) {
		t.Errorf("choose(3): got %v, want ErrCardIndex", err)
	}
	if _, err := f.cards.Choose(-1); !errors.Is(err, ErrCardIndex) {
		t.Errorf("choose(-1): got %v, want ErrCardIndex", err)
	}

	want := f.cards.Hand()[1]
	got, err := f.cards.Choose(1)
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if got.Name != want.Name {
		t.Errorf("chosen: got %q, want %q", got.Name, want.Name)
	}
	if *chosen != 1 || *ended != 1 {
		t.Errorf("signals: CardChosen=%d ChooseCardEnd=%d, want 1/1", *chosen, *ended)
	}

	if _, err := f.cards.Choose(0); !errors.Is(err, ErrNoHand) {
		t.Errorf("second choose: got %v, want ErrNoHand", err)
	}

	f.bus.Flush()
	if !f.phase.Is(game.PhaseBuilding) {
		t.Errorf("phase: got %s, want Building", f.phase.Phase())
	}
}

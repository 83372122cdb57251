package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/decker502/zombie-defense/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultCardDeckPath 内嵌卡组配置文件路径
const DefaultCardDeckPath = "data/cards.yaml"

// InfiniteSpawns MaxSpawns 取此值表示卡牌可无限次出现
const InfiniteSpawns = -1

// 卡牌稀有度
const (
	RarityStandard = "standard"
	RarityUtility  = "utility"
	RarityRare     = "rare"
)

// 卡牌效果
const (
	EffectHeal           = "heal"           // 回复玩家生命
	EffectMaxHealth      = "maxHealth"      // 提高玩家生命上限
	EffectWallHealth     = "wallHealth"     // 提高之后放置的墙的生命值
	EffectFortify        = "fortify"        // 修复场上所有墙
	EffectLandmineDamage = "landmineDamage" // 提高地雷伤害
	EffectBulletDamage   = "bulletDamage"   // 提高子弹伤害
	EffectMagazine       = "magazine"       // 扩充弹匣
	EffectResources      = "resources"      // 立即获得资源
)

var knownEffects = map[string]bool{
	EffectHeal:           true,
	EffectMaxHealth:      true,
	EffectWallHealth:     true,
	EffectFortify:        true,
	EffectLandmineDamage: true,
	EffectBulletDamage:   true,
	EffectMagazine:       true,
	EffectResources:      true,
}

// CardDef 单张卡牌定义
type CardDef struct {
	Name      string  `yaml:"name"`
	Rarity    string  `yaml:"rarity"`    // standard / utility / rare（空卡为空）
	Effect    string  `yaml:"effect"`    // 空卡为空
	Amount    float64 `yaml:"amount"`    // 效果数值
	MaxSpawns int     `yaml:"maxSpawns"` // 最多出现次数，-1 表示无限
}

// CardDeckConfig 卡组配置文件结构
type CardDeckConfig struct {
	Upgrades []CardDef `yaml:"upgrades"` // 升级卡
	Empty    []CardDef `yaml:"empty"`    // 空卡（填充非升级槽位）
}

// DefaultCardDeck 返回内置卡组
func DefaultCardDeck() *CardDeckConfig {
	return &CardDeckConfig{
		Upgrades: []CardDef{
			{Name: "Bandage", Rarity: RarityStandard, Effect: EffectHeal, Amount: 30, MaxSpawns: InfiniteSpawns},
			{Name: "Sharpened Rounds", Rarity: RarityStandard, Effect: EffectBulletDamage, Amount: 5, MaxSpawns: 3},
			{Name: "Brick Layer", Rarity: RarityStandard, Effect: EffectWallHealth, Amount: 25, MaxSpawns: 3},
			{Name: "Extended Mag", Rarity: RarityUtility, Effect: EffectMagazine, Amount: 3, MaxSpawns: 2},
			{Name: "Fortify", Rarity: RarityUtility, Effect: EffectFortify, Amount: 0, MaxSpawns: InfiniteSpawns},
			{Name: "Scrap Cache", Rarity: RarityUtility, Effect: EffectResources, Amount: 5, MaxSpawns: InfiniteSpawns},
			{Name: "Iron Lungs", Rarity: RarityRare, Effect: EffectMaxHealth, Amount: 25, MaxSpawns: 2},
			{Name: "Shaped Charge", Rarity: RarityRare, Effect: EffectLandmineDamage, Amount: 50, MaxSpawns: 2},
		},
		Empty: []CardDef{
			{Name: "Empty", MaxSpawns: InfiniteSpawns},
		},
	}
}

// LoadCardDeck 加载卡组配置
// filepath 以 "data/" 开头时从内嵌资源读取，否则从磁盘读取
func LoadCardDeck(filepath string) (*CardDeckConfig, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(filepath, "data/") {
		data, err = embedded.ReadFile(filepath)
	} else {
		data, err = os.ReadFile(filepath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read card deck file %s: %w", filepath, err)
	}

	var deck CardDeckConfig
	if err := yaml.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("failed to parse card deck YAML from %s: %w", filepath, err)
	}

	if err := validateCardDeck(&deck); err != nil {
		return nil, fmt.Errorf("invalid card deck in %s: %w", filepath, err)
	}

	return &deck, nil
}

// validateCardDeck 验证卡组配置的完整性和合法性
func validateCardDeck(deck *CardDeckConfig) error {
	if len(deck.Upgrades) == 0 {
		return fmt.Errorf("at least one upgrade card is required")
	}

	for i, card := range deck.Upgrades {
		if card.Name == "" {
			return fmt.Errorf("upgrade card %d: name is required", i)
		}
		switch card.Rarity {
		case RarityStandard, RarityUtility, RarityRare:
		default:
			return fmt.Errorf("upgrade card %s: unknown rarity %q", card.Name, card.Rarity)
		}
		if !knownEffects[card.Effect] {
			return fmt.Errorf("upgrade card %s: unknown effect %q", card.Name, card.Effect)
		}
		if card.MaxSpawns < InfiniteSpawns {
			return fmt.Errorf("upgrade card %s: maxSpawns must be -1 or non-negative, got %d", card.Name, card.MaxSpawns)
		}
	}

	for i, card := range deck.Empty {
		if card.Name == "" {
			return fmt.Errorf("empty card %d: name is required", i)
		}
		if card.Effect != "" {
			return fmt.Errorf("empty card %s: must not have an effect, got %q", card.Name, card.Effect)
		}
		if card.MaxSpawns < InfiniteSpawns {
			return fmt.Errorf("empty card %s: maxSpawns must be -1 or non-negative, got %d", card.Name, card.MaxSpawns)
		}
	}

	return nil
}

// UpgradesByRarity 返回指定稀有度的升级卡下标
func (d *CardDeckConfig) UpgradesByRarity(rarity string) []int {
	result := make([]int, 0)
	for i, card := range d.Upgrades {
		if card.Rarity == rarity {
			result = append(result, i)
		}
	}
	return result
}

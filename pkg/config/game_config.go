package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/decker502/zombie-defense/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultGameConfigPath 内嵌游戏配置文件路径
const DefaultGameConfigPath = "data/game.yaml"

// GridConfig 放置网格配置
type GridConfig struct {
	Width    int     `yaml:"width"`    // X 方向格子数
	Height   int     `yaml:"height"`   // Z 方向格子数
	CellSize float64 `yaml:"cellSize"` // 格子边长（世界单位）
	CenterX  float64 `yaml:"centerX"`  // 网格中心世界坐标
	CenterZ  float64 `yaml:"centerZ"`
}

// OriginX 网格左下角 X 坐标（中心减去半个网格宽度）
func (g GridConfig) OriginX() float64 {
	return g.CenterX - float64(g.Width)*g.CellSize*0.5
}

// OriginZ 网格左下角 Z 坐标
func (g GridConfig) OriginZ() float64 {
	return g.CenterZ - float64(g.Height)*g.CellSize*0.5
}

// CostConfig 放置花费（资源单位）
type CostConfig struct {
	Wall     int `yaml:"wall"`
	Landmine int `yaml:"landmine"`
}

// WallConfig 墙属性
type WallConfig struct {
	Health float64 `yaml:"health"`
}

// LandmineConfig 地雷属性
type LandmineConfig struct {
	Health        float64 `yaml:"health"`
	TriggerRadius float64 `yaml:"triggerRadius"`
	Radius        float64 `yaml:"radius"`
	Damage        float64 `yaml:"damage"`
}

// EnemyConfig 近战敌人属性与 AI 参数
type EnemyConfig struct {
	Health               float64 `yaml:"health"`
	Speed                float64 `yaml:"speed"`
	AttackRange          float64 `yaml:"attackRange"`
	AttackDamage         float64 `yaml:"attackDamage"`
	AttackCooldown       float64 `yaml:"attackCooldown"`       // 秒，对玩家和障碍物共享
	StuckThreshold       float64 `yaml:"stuckThreshold"`       // 秒，超过后放弃当前障碍物
	PathRecheckCooldown  float64 `yaml:"pathRecheckCooldown"`  // 秒，移动向障碍物时重新检查玩家路径的间隔
	DestinationThreshold float64 `yaml:"destinationThreshold"` // 玩家移动超过此距离才重新下发目的地
	ObstacleSampleRadius int     `yaml:"obstacleSampleRadius"` // 格子，障碍物附近可通行点的采样半径
	ObstacleSearchRadius float64 `yaml:"obstacleSearchRadius"` // 世界单位，最佳路径之外的障碍物搜索半径
}

// SpawnerConfig 波次生成配置
type SpawnerConfig struct {
	InitialCount      int     `yaml:"initialCount"`
	Multiplier        float64 `yaml:"multiplier"`
	MinBatch          int     `yaml:"minBatch"`
	MaxBatch          int     `yaml:"maxBatch"`
	BatchInterval     float64 `yaml:"batchInterval"`     // 秒
	ReconcileInterval float64 `yaml:"reconcileInterval"` // 秒
	PostWavePause     float64 `yaml:"postWavePause"`     // 秒，防守结束到下一阶段的停顿
}

// BuildConfig 建造阶段配置
type BuildConfig struct {
	Duration float64 `yaml:"duration"` // 倒计时（秒）
	EndDelay float64 `yaml:"endDelay"` // 倒计时结束到防守开始的延迟（秒）
}

// PlayerConfig 玩家属性
type PlayerConfig struct {
	Health          float64 `yaml:"health"`
	Speed           float64 `yaml:"speed"`
	Magazine        int     `yaml:"magazine"`
	ReloadTime      float64 `yaml:"reloadTime"`
	BulletSpeed     float64 `yaml:"bulletSpeed"`
	BulletDamage    float64 `yaml:"bulletDamage"`
	BulletRange     float64 `yaml:"bulletRange"`
	BulletHitRadius float64 `yaml:"bulletHitRadius"`
}

// ScoreConfig 回合得分公式常量
// 得分 = round(bonus + kills*KillValue - max(0, duration/DurationDivisor))
type ScoreConfig struct {
	UndamagedBonus  float64 `yaml:"undamagedBonus"`
	DamagedBonus    float64 `yaml:"damagedBonus"`
	KillValue       float64 `yaml:"killValue"`
	DurationDivisor float64 `yaml:"durationDivisor"`
}

// CardsConfig 卡牌抽取规则
type CardsConfig struct {
	Enabled        bool    `yaml:"enabled"`
	TotalCards     int     `yaml:"totalCards"`
	StandardChance float64 `yaml:"standardChance"`
	UtilityChance  float64 `yaml:"utilityChance"`
	RareChance     float64 `yaml:"rareChance"`
}

// NavConfig 寻路配置
type NavConfig struct {
	// ObstaclePenalty 计算最佳路径时穿过一个墙格子的代价（空格子代价为 1）
	ObstaclePenalty float64 `yaml:"obstaclePenalty"`
}

// GameConfig 游戏配置文件结构
type GameConfig struct {
	Grid      GridConfig     `yaml:"grid"`
	Costs     CostConfig     `yaml:"costs"`
	Wall      WallConfig     `yaml:"wall"`
	Landmine  LandmineConfig `yaml:"landmine"`
	Enemy     EnemyConfig    `yaml:"enemy"`
	Spawner   SpawnerConfig  `yaml:"spawner"`
	Build     BuildConfig    `yaml:"build"`
	Player    PlayerConfig   `yaml:"player"`
	Score     ScoreConfig    `yaml:"score"`
	Cards     CardsConfig    `yaml:"cards"`
	Nav       NavConfig      `yaml:"nav"`
	DaysToWin int            `yaml:"daysToWin"`

	// StartingResources 第一个建造阶段的资源（之后由回合得分决定）
	StartingResources int `yaml:"startingResources"`
}

// DefaultGameConfig 返回内置默认配置
// YAML 中缺省的字段保留这里的值
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Grid:     GridConfig{Width: 20, Height: 20, CellSize: 1},
		Costs:    CostConfig{Wall: 1, Landmine: 5},
		Wall:     WallConfig{Health: 100},
		Landmine: LandmineConfig{Health: 1, TriggerRadius: 0.5, Radius: 5, Damage: 100},
		Enemy: EnemyConfig{
			Health:               30,
			Speed:                3.5,
			AttackRange:          1.5,
			AttackDamage:         10,
			AttackCooldown:       1,
			StuckThreshold:       5,
			PathRecheckCooldown:  1,
			DestinationThreshold: 0.5,
			ObstacleSampleRadius: 2,
			ObstacleSearchRadius: 6,
		},
		Spawner: SpawnerConfig{
			InitialCount:      5,
			Multiplier:        1.2,
			MinBatch:          1,
			MaxBatch:          8,
			BatchInterval:     1,
			ReconcileInterval: 5,
			PostWavePause:     1,
		},
		Build: BuildConfig{Duration: 30, EndDelay: 1},
		Player: PlayerConfig{
			Health:          100,
			Speed:           5,
			Magazine:        9,
			ReloadTime:      2,
			BulletSpeed:     20,
			BulletDamage:    10,
			BulletRange:     15,
			BulletHitRadius: 0.5,
		},
		Score: ScoreConfig{UndamagedBonus: 3, DamagedBonus: -1, KillValue: 1.5, DurationDivisor: 5},
		Cards: CardsConfig{
			Enabled:        true,
			TotalCards:     3,
			StandardChance: 0.4,
			UtilityChance:  0.4,
			RareChance:     0.2,
		},
		Nav:               NavConfig{ObstaclePenalty: 10},
		DaysToWin:         10,
		StartingResources: 10,
	}
}

// LoadGameConfig 加载游戏配置
// 参数：
//
//	filepath - "data/" 开头时从内嵌资源读取，否则从磁盘读取（--config 外部覆盖）
//
// 返回：
//
//	*GameConfig - 解析并校验后的配置
//	error - 读取、解析或校验失败
func LoadGameConfig(filepath string) (*GameConfig, error) {
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
		return nil, fmt.Errorf("failed to read game config file %s: %w", filepath, err)
	}

	cfg, err := ParseGameConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	return cfg, nil
}

// ParseGameConfig 在默认配置之上解析 YAML 数据并校验
func ParseGameConfig(data []byte) (*GameConfig, error) {
	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game config YAML: %w", err)
	}
	if err := validateGameConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	return cfg, nil
}

// validateGameConfig 验证游戏配置的合法性
func validateGameConfig(cfg *GameConfig) error {
	if cfg.Grid.Width <= 0 || cfg.Grid.Height <= 0 {
		return fmt.Errorf("grid size must be positive, got %dx%d", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Grid.CellSize <= 0 {
		return fmt.Errorf("grid cellSize must be positive, got %v", cfg.Grid.CellSize)
	}
	if cfg.Costs.Wall < 0 || cfg.Costs.Landmine < 0 {
		return fmt.Errorf("placement costs cannot be negative (wall=%d, landmine=%d)", cfg.Costs.Wall, cfg.Costs.Landmine)
	}
	if cfg.Wall.Health <= 0 {
		return fmt.Errorf("wall health must be positive, got %v", cfg.Wall.Health)
	}
	if cfg.Landmine.Health <= 0 || cfg.Landmine.Radius < 0 || cfg.Landmine.TriggerRadius < 0 {
		return fmt.Errorf("invalid landmine stats: %+v", cfg.Landmine)
	}
	if cfg.Enemy.Health <= 0 || cfg.Enemy.Speed <= 0 {
		return fmt.Errorf("enemy health and speed must be positive (health=%v, speed=%v)", cfg.Enemy.Health, cfg.Enemy.Speed)
	}
	if cfg.Enemy.AttackRange <= 0 || cfg.Enemy.AttackCooldown < 0 {
		return fmt.Errorf("invalid enemy attack settings (range=%v, cooldown=%v)", cfg.Enemy.AttackRange, cfg.Enemy.AttackCooldown)
	}
	if cfg.Enemy.ObstacleSampleRadius < 0 {
		return fmt.Errorf("enemy obstacleSampleRadius cannot be negative, got %d", cfg.Enemy.ObstacleSampleRadius)
	}
	if err := validateSpawner(cfg.Spawner); err != nil {
		return err
	}
	if cfg.Build.Duration < 0 || cfg.Build.EndDelay < 0 {
		return fmt.Errorf("build timings cannot be negative (duration=%v, endDelay=%v)", cfg.Build.Duration, cfg.Build.EndDelay)
	}
	if cfg.Player.Health <= 0 || cfg.Player.Magazine <= 0 {
		return fmt.Errorf("player health and magazine must be positive (health=%v, magazine=%d)", cfg.Player.Health, cfg.Player.Magazine)
	}
	if cfg.Score.DurationDivisor <= 0 {
		return fmt.Errorf("score durationDivisor must be positive, got %v", cfg.Score.DurationDivisor)
	}
	if cfg.Cards.TotalCards <= 0 {
		return fmt.Errorf("cards totalCards must be positive, got %d", cfg.Cards.TotalCards)
	}
	if cfg.Cards.StandardChance < 0 || cfg.Cards.UtilityChance < 0 || cfg.Cards.RareChance < 0 {
		return fmt.Errorf("card rarity chances cannot be negative")
	}
	if cfg.Nav.ObstaclePenalty < 1 {
		return fmt.Errorf("nav obstaclePenalty must be at least 1, got %v", cfg.Nav.ObstaclePenalty)
	}
	if cfg.DaysToWin <= 0 {
		return fmt.Errorf("daysToWin must be positive, got %d", cfg.DaysToWin)
	}
	if cfg.StartingResources < 0 {
		return fmt.Errorf("startingResources cannot be negative, got %d", cfg.StartingResources)
	}
	return nil
}

func validateSpawner(s SpawnerConfig) error {
	if s.InitialCount < 0 {
		return fmt.Errorf("spawner initialCount cannot be negative, got %d", s.InitialCount)
	}
	if s.Multiplier < 1 {
		return fmt.Errorf("spawner multiplier must be at least 1, got %v", s.Multiplier)
	}
	if s.MinBatch < 1 || s.MaxBatch < s.MinBatch {
		return fmt.Errorf("spawner batch bounds invalid: min=%d, max=%d", s.MinBatch, s.MaxBatch)
	}
	if s.BatchInterval <= 0 || s.ReconcileInterval <= 0 {
		return fmt.Errorf("spawner intervals must be positive (batch=%v, reconcile=%v)", s.BatchInterval, s.ReconcileInterval)
	}
	if s.PostWavePause < 0 {
		return fmt.Errorf("spawner postWavePause cannot be negative, got %v", s.PostWavePause)
	}
	return nil
}

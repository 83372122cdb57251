// simulate 无界面运行防守，用简单策略驱动 Session，输出每回合统计
//
// 用法：
//
//	go run ./cmd/simulate --days 3 --seed 7
//	go run ./cmd/simulate --config my_game.yaml --verbose
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/game"
	"github.com/decker502/zombie-defense/pkg/session"
	"github.com/decker502/zombie-defense/pkg/systems"
)

const (
	tickRate = 60

	// wallRingRadius 围墙半径，1 圈 8 格在初始资源内可以放满
	wallRingRadius = 1
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	configPath = flag.String("config", "", "外部游戏配置文件（为空时使用内置默认值）")
	seed       = flag.Int64("seed", 1, "随机种子")
	days       = flag.Int("days", 3, "胜利所需天数（覆盖配置）")
	maxMinutes = flag.Float64("max-minutes", 30, "模拟时长上限（游戏内分钟）")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg := config.DefaultGameConfig()
	if *configPath != "" {
		loaded, err := config.LoadGameConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.DaysToWin = *days

	s, err := session.New(session.Options{
		Config: cfg,
		Rand:   rand.New(rand.NewSource(*seed)),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建 Session 失败: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	s.Bus().Subscribe(game.SignalDefenseStop, func(game.Event) {
		fmt.Printf("day %2d  wave %2d  kills %3d  resources %3d\n",
			s.Day(), s.Spawner().Wave(), s.Score().Kills(), s.Resources())
	})

	if err := s.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "开始失败: %v\n", err)
		os.Exit(1)
	}

	b := &bot{session: s}
	dt := 1.0 / tickRate
	limit := int(*maxMinutes * 60 * tickRate)
	for i := 0; i < limit && !s.IsFinished(); i++ {
		b.act()
		s.Tick(dt)
	}

	switch {
	case !s.IsFinished():
		fmt.Printf("time limit reached on day %d\n", s.Day())
	case s.Won():
		fmt.Printf("victory on day %d, %d total kills\n", s.Day(), s.Score().TotalKills())
	default:
		fmt.Printf("game over on day %d, %d total kills\n", s.Day(), s.Score().TotalKills())
	}
}

// bot 简单策略：
//   - 建造阶段在玩家周围放一圈墙，放不下后跳过倒计时
//   - 防守阶段朝最近的敌人射击
//   - 选卡阶段优先选升级卡
type bot struct {
	session *session.Session
}

func (b *bot) act() {
	switch b.session.Phase() {
	case game.PhaseBuilding:
		b.build()
	case game.PhaseDefending:
		b.shoot()
	case game.PhaseChooseCard:
		b.choose()
	}
}

func (b *bot) build() {
	s := b.session
	grid := s.Grid()
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.EntityManager(), s.PlayerID())
	if !ok {
		return
	}
	center, ok := grid.WorldToCell(pos.X, pos.Z)
	if !ok {
		return
	}

	for _, c := range ring(center, wallRingRadius) {
		if s.Resources() < grid.Cost(components.ObstacleWall) {
			break
		}
		if s.PreviewPlacement(c.X, c.Z) == systems.PlacementPlaced {
			s.Place(c.X, c.Z)
		}
	}
	s.SkipBuild()
}

func (b *bot) shoot() {
	s := b.session
	em := s.EntityManager()
	pos, ok := ecs.GetComponent[*components.PositionComponent](em, s.PlayerID())
	if !ok {
		return
	}

	best := math.Inf(1)
	var dx, dz float64
	for _, id := range ecs.GetEntitiesWith2[*components.EnemyTagComponent, *components.PositionComponent](em) {
		enemy, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		if d := math.Hypot(enemy.X-pos.X, enemy.Z-pos.Z); d < best {
			best, dx, dz = d, enemy.X-pos.X, enemy.Z-pos.Z
		}
	}
	if !math.IsInf(best, 1) {
		s.Fire(dx, dz)
	}
}

func (b *bot) choose() {
	hand := b.session.Hand()
	if len(hand) == 0 {
		return
	}
	pick := 0
	for i, card := range hand {
		if card.Effect != "" {
			pick = i
			break
		}
	}
	if _, err := b.session.ChooseCard(pick); err != nil {
		log.Printf("[simulate] Warning: choose card failed: %v", err)
	}
}

// ring 返回与 center 切比雪夫距离为 r 的一圈格子
func ring(center components.Cell, r int) []components.Cell {
	cells := make([]components.Cell, 0, 8*r)
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			if max(abs(dx), abs(dz)) == r {
				cells = append(cells, components.Cell{X: center.X + dx, Z: center.Z + dz})
			}
		}
	}
	return cells
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

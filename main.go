package main

import (
	"flag"
	"log"

	"github.com/decker502/zombie-defense/pkg/app"
	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	configPath = flag.String("config", config.DefaultGameConfigPath, "游戏配置文件（不以 data/ 开头时从磁盘读取）")
	cardsPath  = flag.String("cards", config.DefaultCardDeckPath, "卡组配置文件（不以 data/ 开头时从磁盘读取）")
	seed       = flag.Int64("seed", 0, "随机种子（0 表示使用当前时间）")
)

func main() {
	flag.Parse()

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:        *verbose,
		GameConfigPath: *configPath,
		CardDeckPath:   *cardsPath,
		Seed:           *seed,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Zombie Defense")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}

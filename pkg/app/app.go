// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/zombie-defense/pkg/config"
	"github.com/decker502/zombie-defense/pkg/game"
	"github.com/decker502/zombie-defense/pkg/scenes"
	"github.com/decker502/zombie-defense/pkg/session"
	"github.com/decker502/zombie-defense/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 逻辑屏幕尺寸
const (
	WindowWidth  = 800
	WindowHeight = 600
)

// AppName gdata 存储使用的应用名
const AppName = "zombie_defense"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// GameConfigPath 游戏配置路径，"data/" 开头从内嵌资源读取，否则从磁盘读取
	GameConfigPath string
	// CardDeckPath 卡组配置路径，规则同上
	CardDeckPath string
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	progress     *game.ProgressStore
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.GameConfigPath == "" {
		cfg.GameConfigPath = config.DefaultGameConfigPath
	}
	if cfg.CardDeckPath == "" {
		cfg.CardDeckPath = config.DefaultCardDeckPath
	}

	gameConfig, err := config.LoadGameConfig(cfg.GameConfigPath)
	if err != nil {
		return nil, fmt.Errorf("游戏配置加载失败: %w", err)
	}
	deck, err := config.LoadCardDeck(cfg.CardDeckPath)
	if err != nil {
		return nil, fmt.Errorf("卡组配置加载失败: %w", err)
	}
	log.Printf("[Config] Loaded %s (%dx%d grid) and %d upgrade cards", cfg.GameConfigPath, gameConfig.Grid.Width, gameConfig.Grid.Height, len(deck.Upgrades))

	// gdata 不可用时降级为仅内存记录
	gdataManager, err := utils.OpenStorage(AppName)
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, progress will not be saved: %v", err)
		gdataManager = nil
	}
	progress := game.NewProgressStore(gdataManager)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	log.Printf("[App] Seed %d", seed)

	sceneManager := game.NewSceneManager()
	newScene := func() (game.Scene, error) {
		s, err := session.New(session.Options{
			Config:   gameConfig,
			Deck:     deck,
			Progress: progress,
			Rand:     rand.New(rand.NewSource(rng.Int63())),
		})
		if err != nil {
			return nil, err
		}
		return scenes.NewDefenseScene(s, sceneManager, WindowWidth, WindowHeight), nil
	}
	sceneManager.SetSceneFactory(newScene)

	first, err := newScene()
	if err != nil {
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}
	sceneManager.SwitchTo(first)

	return &App{
		sceneManager: sceneManager,
		progress:     progress,
		verbose:      cfg.Verbose,
	}, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(WindowWidth, WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.sceneManager.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// Close 关闭当前场景（程序退出时调用）
func (a *App) Close() {
	a.sceneManager.Close()
}

// Progress 跨局进度
func (a *App) Progress() *game.ProgressStore {
	return a.progress
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

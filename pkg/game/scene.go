package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a game scene (e.g., the defense field, a results screen).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Closer 是一个可选接口，场景被替换或程序退出时释放资源
//
// 实现此接口的场景会在以下时机被调用 Close()：
//   - SceneManager 切换到其他场景（包括 Restart）
//   - 游戏窗口关闭
type Closer interface {
	Close()
}

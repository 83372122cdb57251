package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 用于重新开局时创建新场景，避免 game 包依赖 scenes 包
type SceneFactory func() (Scene, error)

// SceneManager manages the game's high-level state by controlling which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo or Restart to set one.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene. The previous scene is closed if it implements Closer.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene == scene {
		return
	}
	sm.closeCurrent()
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Restart 通过工厂函数创建新场景并切换过去
// 工厂未设置或创建失败时保留当前场景
func (sm *SceneManager) Restart() {
	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] Warning: SceneFactory not set")
		return
	}
	scene, err := sm.sceneFactory()
	if err != nil {
		log.Printf("[SceneManager] Warning: failed to create scene: %v", err)
		return
	}
	sm.SwitchTo(scene)
	log.Printf("[SceneManager] Restarted")
}

// Close 关闭当前场景（程序退出时调用）
func (sm *SceneManager) Close() {
	sm.closeCurrent()
	sm.currentScene = nil
}

func (sm *SceneManager) closeCurrent() {
	if closer, ok := sm.currentScene.(Closer); ok {
		closer.Close()
	}
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	deltaTime    float64
	closed       int
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {}

func (m *MockScene) Close() { m.closed++ }

// plainScene 不实现 Closer
type plainScene struct{}

func (plainScene) Update(float64) {}
func (plainScene) Draw(*ebiten.Image) {}

func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm.GetCurrentScene() != nil {
		t.Error("Expected no scene initially")
	}
	sm.Update(0.016) // 没有场景时不崩溃
}

func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	sm.Update(0.016)

	if !mockScene.updateCalled {
		t.Error("Scene's Update method was not called")
	}
	if mockScene.deltaTime != 0.016 {
		t.Errorf("Expected deltaTime 0.016, got %.3f", mockScene.deltaTime)
	}
}

// TestSceneManagerSwitchClosesPrevious 切换场景时关闭旧场景
func TestSceneManagerSwitchClosesPrevious(t *testing.T) {
	sm := NewSceneManager()
	first := &MockScene{}
	second := &MockScene{}

	sm.SwitchTo(first)
	sm.SwitchTo(first)
	if first.closed != 0 {
		t.Error("switching to the same scene should not close it")
	}

	sm.SwitchTo(second)
	if first.closed != 1 {
		t.Errorf("first scene closed %d times, want 1", first.closed)
	}

	sm.SwitchTo(plainScene{})
	if second.closed != 1 {
		t.Errorf("second scene closed %d times, want 1", second.closed)
	}
	sm.Close()
}

func TestSceneManagerRestart(t *testing.T) {
	tests := []struct {
		name      string
		factory   SceneFactory
		wantFresh bool
	}{
		{"工厂未设置", nil, false},
		{"工厂返回错误", func() (Scene, error) { return nil, errors.New("boom") }, false},
		{"创建新场景", func() (Scene, error) { return &MockScene{}, nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewSceneManager()
			old := &MockScene{}
			sm.SwitchTo(old)
			sm.SetSceneFactory(tt.factory)

			sm.Restart()

			fresh := sm.GetCurrentScene() != Scene(old)
			if fresh != tt.wantFresh {
				t.Errorf("scene replaced = %v, want %v", fresh, tt.wantFresh)
			}
			if tt.wantFresh && old.closed != 1 {
				t.Errorf("old scene closed %d times, want 1", old.closed)
			}
		})
	}
}

func TestSceneManagerClose(t *testing.T) {
	sm := NewSceneManager()
	scene := &MockScene{}
	sm.SwitchTo(scene)

	sm.Close()
	sm.Close()

	if scene.closed != 1 || sm.GetCurrentScene() != nil {
		t.Errorf("closed=%d current=%v", scene.closed, sm.GetCurrentScene())
	}
}

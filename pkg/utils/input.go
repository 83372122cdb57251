// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputState 存储当前帧的指针输入状态
// 统一处理鼠标和触摸输入
type InputState struct {
	// JustPressed 主按键（鼠标左键或触摸）刚刚按下
	JustPressed bool
	// AltJustPressed 次按键（鼠标右键）刚刚按下
	AltJustPressed bool
	// 指针位置
	X, Y int
	// 是否有活动的触摸
	IsTouching bool
}

// GetInputState 获取当前帧的输入状态，优先检测触摸
func GetInputState() InputState {
	state := InputState{}

	if touchIDs := inpututil.AppendJustPressedTouchIDs(nil); len(touchIDs) > 0 {
		state.JustPressed = true
		state.X, state.Y = ebiten.TouchPosition(touchIDs[0])
		state.IsTouching = true
		return state
	}

	if allTouchIDs := ebiten.AppendTouchIDs(nil); len(allTouchIDs) > 0 {
		state.X, state.Y = ebiten.TouchPosition(allTouchIDs[0])
		state.IsTouching = true
		return state
	}

	state.JustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	state.AltJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	state.X, state.Y = ebiten.CursorPosition()
	return state
}

// MoveAxis 读取 WASD / 方向键，返回地面平面上的移动方向
// W/上 为 +Z（屏幕向上），D/右 为 +X；未归一化
func MoveAxis() (dx, dz float64) {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	return Axis(left, right), Axis(down, up)
}

// Axis 将一对相反方向的按键合成为 -1、0 或 1
func Axis(negative, positive bool) float64 {
	switch {
	case negative && !positive:
		return -1
	case positive && !negative:
		return 1
	default:
		return 0
	}
}

// JustPressedDigit 返回本帧按下的数字键 1-9 对应的下标（0 起），没有时返回 -1
func JustPressedDigit() int {
	for i := 0; i < 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.Key1 + ebiten.Key(i)) {
			return i
		}
	}
	return -1
}

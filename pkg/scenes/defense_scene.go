package scenes

import (
	"log"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/game"
	"github.com/decker502/zombie-defense/pkg/session"
	"github.com/decker502/zombie-defense/pkg/systems"
	"github.com/decker502/zombie-defense/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// PixelsPerUnit 俯视相机每世界单位的像素数
	PixelsPerUnit = 28
	// CameraHeight 相机高度（射线起点）
	CameraHeight = 20
)

// DefenseScene 防守战场场景
//
// 职责：
//   - 轮询指针和键盘，把输入转换为 Session 命令
//   - 指针投射到地面网格，建造阶段显示放置预览（可放置/不可放置）
//   - 每帧推进 Session
//   - 绘制调试用的俯视图和 HUD
//
// 按键：
//
//	Enter        开始 / 结束后重新开局
//	左键         建造阶段放置，防守阶段朝指针射击
//	Tab / 右键   切换墙和地雷
//	Space        跳过建造倒计时
//	WASD / 方向键 移动玩家
//	R            换弹
//	1-9          选择卡牌
//	Esc / P      暂停 / 恢复
type DefenseScene struct {
	session      *session.Session
	sceneManager *game.SceneManager
	camera       utils.TopDownCamera

	hover      components.Cell
	hoverValid bool
	preview    systems.PlacementResult
	message    string
}

// NewDefenseScene 创建防守场景
//
// 参数：
//   - s: 本局 Session，场景关闭时一并关闭
//   - sm: 场景管理器（结束后重新开局），可为 nil
//   - screenWidth, screenHeight: 逻辑屏幕尺寸
func NewDefenseScene(s *session.Session, sm *game.SceneManager, screenWidth, screenHeight int) *DefenseScene {
	cfg := s.Config().Grid
	return &DefenseScene{
		session:      s,
		sceneManager: sm,
		camera: utils.TopDownCamera{
			CenterX:       cfg.CenterX,
			CenterZ:       cfg.CenterZ,
			PixelsPerUnit: PixelsPerUnit,
			ScreenWidth:   screenWidth,
			ScreenHeight:  screenHeight,
			Height:        CameraHeight,
		},
		message: "Press Enter to start",
	}
}

// Session 场景驱动的 Session
func (ds *DefenseScene) Session() *session.Session {
	return ds.session
}

// Close 关闭 Session（场景被替换或程序退出时）
func (ds *DefenseScene) Close() {
	ds.session.Close()
}

// Update 处理输入并推进一帧
func (ds *DefenseScene) Update(deltaTime float64) {
	input := utils.GetInputState()
	ds.updateHover(input.X, input.Y)

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		ds.togglePause()
	}

	if ds.session.IsFinished() {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && ds.sceneManager != nil {
			ds.sceneManager.Restart()
		}
		return
	}

	switch ds.session.Phase() {
	case game.PhaseMainMenu:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || input.JustPressed {
			if err := ds.session.Start(); err != nil {
				log.Printf("[DefenseScene] Warning: %v", err)
			}
			ds.message = ""
		}

	case game.PhaseBuilding:
		ds.handleBuildInput(input)

	case game.PhaseDefending:
		ds.handleDefenseInput(input)

	case game.PhaseChooseCard:
		if i := utils.JustPressedDigit(); i >= 0 {
			card, err := ds.session.ChooseCard(i)
			if err != nil {
				ds.message = err.Error()
			} else {
				ds.message = "Chose " + card.Name
			}
		}
	}

	ds.session.Tick(deltaTime)
}

// updateHover 更新指针下的格子
func (ds *DefenseScene) updateHover(screenX, screenY int) {
	ds.hover, ds.hoverValid = PointerCell(ds.camera, ds.session.Grid(), screenX, screenY)
	if ds.hoverValid {
		ds.preview = ds.session.PreviewPlacement(ds.hover.X, ds.hover.Z)
	}
}

func (ds *DefenseScene) togglePause() {
	if ds.session.Phase() == game.PhasePaused {
		ds.session.Resume()
	} else if ds.session.Phase() != game.PhaseMainMenu {
		ds.session.Pause()
	}
}

func (ds *DefenseScene) handleBuildInput(input utils.InputState) {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) || input.AltJustPressed {
		ds.message = "Placing " + ds.session.TogglePlacementKind().String()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		ds.session.SkipBuild()
	}
	if input.JustPressed && ds.hoverValid {
		p := ds.session.Place(ds.hover.X, ds.hover.Z)
		if p.Result != systems.PlacementPlaced {
			ds.message = p.Result.String()
		} else {
			ds.message = ""
		}
	}
	ds.session.MovePlayer(utils.MoveAxis())
}

func (ds *DefenseScene) handleDefenseInput(input utils.InputState) {
	ds.session.MovePlayer(utils.MoveAxis())
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		ds.session.Reload()
	}
	if input.JustPressed {
		if dx, dz, ok := ds.aimAt(input.X, input.Y); ok {
			ds.session.Fire(dx, dz)
		}
	}
}

// aimAt 返回从玩家指向指针落点的方向
func (ds *DefenseScene) aimAt(screenX, screenY int) (dx, dz float64, ok bool) {
	x, z, hit := utils.IntersectGround(ds.camera.ScreenToRay(screenX, screenY), 0)
	if !hit {
		return 0, 0, false
	}
	pos, found := ds.playerPosition()
	if !found {
		return 0, 0, false
	}
	dx, dz = x-pos.X, z-pos.Z
	return dx, dz, dx != 0 || dz != 0
}

func (ds *DefenseScene) playerPosition() (*components.PositionComponent, bool) {
	em := ds.session.EntityManager()
	return ecsPosition(em, ds.session.PlayerID())
}

// PointerCell 将屏幕坐标投射到地面，返回所在格子
// 射线与地面不相交或落在网格外时 ok 为 false
func PointerCell(camera utils.TopDownCamera, grid *systems.GridSystem, screenX, screenY int) (cell components.Cell, ok bool) {
	x, z, hit := utils.IntersectGround(camera.ScreenToRay(screenX, screenY), 0)
	if !hit {
		return components.Cell{}, false
	}
	return grid.WorldToCell(x, z)
}

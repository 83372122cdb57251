package scenes

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/ecs"
	"github.com/decker502/zombie-defense/pkg/game"
	"github.com/decker502/zombie-defense/pkg/session"
	"github.com/decker502/zombie-defense/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 调试视图配色
var (
	colorBackground = color.RGBA{R: 34, G: 40, B: 34, A: 255}
	colorGridLine   = color.RGBA{R: 60, G: 72, B: 60, A: 255}
	colorWall       = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	colorLandmine   = color.RGBA{R: 220, G: 190, B: 40, A: 255}
	colorBestPath   = color.RGBA{R: 230, G: 80, B: 60, A: 255}
	colorEnemy      = color.RGBA{R: 200, G: 50, B: 50, A: 255}
	colorPlayer     = color.RGBA{R: 70, G: 140, B: 240, A: 255}
	colorBullet     = color.RGBA{R: 255, G: 255, B: 200, A: 255}
	colorPreviewOK  = color.RGBA{R: 80, G: 220, B: 80, A: 255}
	colorPreviewBad = color.RGBA{R: 220, G: 60, B: 60, A: 255}
)

// Draw 绘制俯视调试图和 HUD
func (ds *DefenseScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	ds.drawGrid(screen)
	ds.drawObstacles(screen)
	ds.drawActors(screen)
	if ds.session.Phase() == game.PhaseBuilding && ds.hoverValid {
		ds.drawCellOutline(screen, ds.hover, PreviewColor(ds.preview), 2)
	}

	lines := HUDLines(ds.session)
	if ds.message != "" {
		lines = append(lines, ds.message)
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 8, 8)
}

// cellRect 返回格子在屏幕上的左上角和边长
func (ds *DefenseScene) cellRect(c components.Cell) (x, y, size float32) {
	grid := ds.session.Grid()
	cx, cz := grid.CellCenter(c)
	half := grid.CellSize() / 2
	sx, sy := ds.camera.WorldToScreen(cx-half, cz+half)
	return float32(sx), float32(sy), float32(grid.CellSize() * ds.camera.PixelsPerUnit)
}

func (ds *DefenseScene) drawGrid(screen *ebiten.Image) {
	grid := ds.session.Grid()
	for z := 0; z < grid.Height(); z++ {
		for x := 0; x < grid.Width(); x++ {
			ds.drawCellOutline(screen, components.Cell{X: x, Z: z}, colorGridLine, 1)
		}
	}
}

func (ds *DefenseScene) drawCellOutline(screen *ebiten.Image, c components.Cell, clr color.Color, width float32) {
	x, y, size := ds.cellRect(c)
	vector.StrokeRect(screen, x, y, size, size, width, clr, false)
}

func (ds *DefenseScene) drawObstacles(screen *ebiten.Image) {
	em := ds.session.EntityManager()
	for _, id := range ds.session.Grid().Obstacles() {
		obstacle, ok := ecs.GetComponent[*components.ObstacleComponent](em, id)
		if !ok {
			continue
		}
		x, y, size := ds.cellRect(obstacle.Cell)
		switch obstacle.Kind {
		case components.ObstacleWall:
			vector.DrawFilledRect(screen, x+1, y+1, size-2, size-2, colorWall, false)
			if obstacle.OnBestPath {
				vector.StrokeRect(screen, x+2, y+2, size-4, size-4, 2, colorBestPath, false)
			}
		case components.ObstacleLandmine:
			vector.DrawFilledCircle(screen, x+size/2, y+size/2, size/4, colorLandmine, true)
		}
	}
}

func (ds *DefenseScene) drawActors(screen *ebiten.Image) {
	em := ds.session.EntityManager()
	radius := float32(ds.camera.PixelsPerUnit * 0.35)

	for _, id := range ecs.GetEntitiesWith2[*components.EnemyTagComponent, *components.PositionComponent](em) {
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		sx, sy := ds.camera.WorldToScreen(pos.X, pos.Z)
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), radius, colorEnemy, true)
	}

	for _, id := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](em) {
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		sx, sy := ds.camera.WorldToScreen(pos.X, pos.Z)
		vector.DrawFilledRect(screen, float32(sx)-1.5, float32(sy)-1.5, 3, 3, colorBullet, false)
	}

	if pos, ok := ds.playerPosition(); ok {
		sx, sy := ds.camera.WorldToScreen(pos.X, pos.Z)
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), radius, colorPlayer, true)
	}
}

func ecsPosition(em *ecs.EntityManager, id ecs.EntityID) (*components.PositionComponent, bool) {
	return ecs.GetComponent[*components.PositionComponent](em, id)
}

// PreviewColor 放置预览的颜色：可放置为绿色，其余为红色
func PreviewColor(result systems.PlacementResult) color.Color {
	if result == systems.PlacementPlaced {
		return colorPreviewOK
	}
	return colorPreviewBad
}

// HUDLines 生成 HUD 文本行
func HUDLines(s *session.Session) []string {
	lines := []string{
		fmt.Sprintf("Day %d  Phase %s  Resources %d", s.Day(), s.Phase(), s.Resources()),
	}

	em := s.EntityManager()
	if health, ok := ecs.GetComponent[*components.HealthComponent](em, s.PlayerID()); ok {
		line := fmt.Sprintf("HP %.0f/%.0f", health.CurrentHealth, health.MaxHealth)
		if player, ok := ecs.GetComponent[*components.PlayerComponent](em, s.PlayerID()); ok {
			if player.Reloading {
				line += "  Reloading"
			} else {
				line += fmt.Sprintf("  Ammo %d/%d", player.Shots, player.MagazineSize)
			}
		}
		lines = append(lines, line)
	}

	phase := s.Phase()
	if phase == game.PhasePaused {
		phase = s.PausedPhase()
		lines = append(lines, "PAUSED")
	}

	switch phase {
	case game.PhaseBuilding:
		lines = append(lines, fmt.Sprintf("Build %.0fs  Placing %s (Tab)  Space to skip", s.BuildTimeRemaining(), s.PlacementKind()))
	case game.PhaseDefending:
		sp := s.Spawner()
		lines = append(lines, fmt.Sprintf("Wave %d  Enemies left %d  Kills %d", sp.Wave(), sp.Remaining(), s.Score().Kills()))
	case game.PhaseChooseCard:
		for i, card := range s.Hand() {
			lines = append(lines, fmt.Sprintf("[%d] %s", i+1, card.Name))
		}
	}

	if s.IsFinished() {
		if s.Won() {
			lines = append(lines, "VICTORY - Enter to play again")
		} else {
			lines = append(lines, "GAME OVER - Enter to play again")
		}
	}
	return lines
}

package utils

// TopDownCamera 俯视正交相机
// 屏幕 Y 向下，世界 Z 向上；相机位于 Height 高度垂直向下看
type TopDownCamera struct {
	CenterX, CenterZ float64 // 屏幕中心对应的世界坐标
	PixelsPerUnit    float64 // 每世界单位的像素数
	ScreenWidth      int
	ScreenHeight     int
	Height           float64 // 相机高度
}

// ScreenToRay 将屏幕坐标转换为指向地面的射线
func (c TopDownCamera) ScreenToRay(screenX, screenY int) Ray {
	x := c.CenterX + (float64(screenX)-float64(c.ScreenWidth)/2)/c.PixelsPerUnit
	z := c.CenterZ - (float64(screenY)-float64(c.ScreenHeight)/2)/c.PixelsPerUnit
	return Ray{
		OriginX: x, OriginY: c.Height, OriginZ: z,
		DirX: 0, DirY: -1, DirZ: 0,
	}
}

// WorldToScreen 将世界坐标转换为屏幕坐标
func (c TopDownCamera) WorldToScreen(x, z float64) (screenX, screenY float64) {
	screenX = float64(c.ScreenWidth)/2 + (x-c.CenterX)*c.PixelsPerUnit
	screenY = float64(c.ScreenHeight)/2 - (z-c.CenterZ)*c.PixelsPerUnit
	return screenX, screenY
}

//go:build !mobile

package mobile

// Dummy 非移动端构建时的占位导出，真正的入口在 mobile.go（-tags mobile）
func Dummy() {}

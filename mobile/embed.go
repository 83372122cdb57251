//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// 构建前需要把根目录的 data/ 复制到此目录（go:embed 不能引用上级目录）。
package mobile

import "embed"

//go:embed data/game.yaml data/cards.yaml
var dataFS embed.FS

package utils

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
)

// OpenStorage 打开应用的 gdata 存储
// 先准备平台相关的存储目录，再初始化 gdata
//
// 返回：
//   - *gdata.Manager: 存储管理器
//   - error: 目录准备或 gdata 初始化失败
func OpenStorage(appName string) (*gdata.Manager, error) {
	if err := ensureStorageDir(); err != nil {
		return nil, err
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage for %s: %w", appName, err)
	}
	return m, nil
}

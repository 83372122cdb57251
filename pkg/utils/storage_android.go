//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ensureStorageDir 在 gdata 初始化前创建 /data/data/{package}/saves
// gdata 在 Android 上不会预先创建子目录
func ensureStorageDir() error {
	cmdline, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return fmt.Errorf("failed to detect Android package: %w", err)
	}
	pkg, _, _ := strings.Cut(string(cmdline), "\x00")
	pkg = strings.TrimSpace(pkg)
	if pkg == "" {
		return fmt.Errorf("failed to detect Android package: empty cmdline")
	}

	dir := filepath.Join("/data/data", pkg, "saves")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create saves directory %s: %w", dir, err)
	}
	return nil
}

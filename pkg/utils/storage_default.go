//go:build !android

package utils

// ensureStorageDir 非 Android 平台上 gdata 自行创建目录
func ensureStorageDir() error {
	return nil
}

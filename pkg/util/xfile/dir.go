package xfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirPerm 是按需创建追踪目录时使用的权限。
// 0750：所有者读写执行，组读执行，其他无权限。
const DirPerm os.FileMode = 0o750

// EnsureParentDir 确保 path 的父目录存在，缺失时按 [DirPerm] 逐级创建。
// path 是文件路径而非目录路径；父目录为当前目录时不做任何事。
// 目录已存在时不修改其权限。
//
// 底层是 os.MkdirAll，会跟随符号链接；path 应先经 [SanitizePath] 校验。
func EnsureParentDir(path string) error {
	if path == "" {
		return fmt.Errorf("destination path: %w", ErrEmptyPath)
	}
	if hasNullByte(path) {
		return fmt.Errorf("destination path: %w", ErrNullByte)
	}

	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("create trace directory %s: %w", dir, err)
	}
	return nil
}

package xfile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// hasNullByte 检测路径是否含空字节。
func hasNullByte(path string) bool {
	return strings.IndexByte(path, 0) >= 0
}

// hasDotDotSegment 判断路径中是否存在恰好为 ".." 的独立路径段。
// '/' 与 '\' 都视为分隔符，以覆盖跨平台拼接出的混合路径。
// 不能用 strings.Contains(path, "..")：会误伤 "app..2024.log" 这类文件名。
func hasDotDotSegment(path string) bool {
	rest := path
	for rest != "" {
		var seg string
		if i := strings.IndexAny(rest, `/\`); i >= 0 {
			seg, rest = rest[:i], rest[i+1:]
		} else {
			seg, rest = rest, ""
		}
		if seg == ".." {
			return true
		}
	}
	return false
}

// SanitizePath 校验并规范化一个追踪文件目标路径。
//
// 规则：
//   - 拒绝空路径与含空字节的路径
//   - 拒绝以 "/" 或 "\" 结尾的显式目录路径（Clean 会吃掉尾部分隔符，
//     必须在规范化之前检查）
//   - 拒绝含 ".." 独立路径段的相对穿越
//   - 其余路径经 filepath.Clean 规范化后返回
//
// 绝对路径原样接受：追踪目标由操作员指定，本函数只拦配置错误，
// 不做目录沙箱。
func SanitizePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("destination path: %w", ErrEmptyPath)
	}
	if hasNullByte(path) {
		return "", fmt.Errorf("destination path: %w", ErrNullByte)
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, `\`) {
		return "", fmt.Errorf("destination %q: %w", path, ErrDirectoryPath)
	}

	cleaned := filepath.Clean(path)
	if hasDotDotSegment(cleaned) {
		return "", fmt.Errorf("destination %q: %w", path, ErrPathTraversal)
	}
	if base := filepath.Base(cleaned); base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("destination %q: %w", path, ErrDirectoryPath)
	}
	return cleaned, nil
}

package xsettings

import "errors"

// 设置加载与解析相关错误。
var (
	// ErrEmptyPath 表示设置文件路径为空。
	ErrEmptyPath = errors.New("xsettings: empty settings path")

	// ErrUnsupportedFormat 表示不支持的设置格式。
	ErrUnsupportedFormat = errors.New("xsettings: unsupported settings format")

	// ErrLoadFailed 表示设置加载失败。
	ErrLoadFailed = errors.New("xsettings: failed to load settings")

	// ErrParseFailed 表示设置解析失败。
	ErrParseFailed = errors.New("xsettings: failed to parse settings")
)

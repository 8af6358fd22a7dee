package xtrace

import (
	"encoding"
	"fmt"
	"strings"
)

// 编译时断言：Level 可直接在配置文件中序列化/反序列化
var (
	_ encoding.TextMarshaler   = LevelNotSet
	_ encoding.TextUnmarshaler = (*Level)(nil)
)

// Level 追踪级别，按声明序比较，数值越大输出越详细。
// 过滤规则：生效级别 >= 消息级别时输出。
type Level int32

const (
	// LevelNotSet 哨兵值：继承 Writer 的默认级别。
	// 与 LevelOff 不同——Off 是显式静默，NotSet 是"尚未决定"。
	LevelNotSet Level = iota

	// LevelOff 关闭全部追踪输出
	LevelOff

	// LevelError 仅错误
	LevelError

	// LevelWarning 警告及以上
	LevelWarning

	// LevelInfo 摘要信息及以上
	LevelInfo

	// LevelDebug 全量调试输出
	LevelDebug
)

// LevelVerbose 是 LevelDebug 的别名，两者比较相等，公告与行格式中都显示为 Debug。
const LevelVerbose = LevelDebug

// String 返回级别的显示名。
// 未定义的数值退化为 "Level(<n>)"，不会 panic。
func (l Level) String() string {
	switch l {
	case LevelNotSet:
		return "NotSet"
	case LevelOff:
		return "Off"
	case LevelError:
		return "Error"
	case LevelWarning:
		return "Warning"
	case LevelInfo:
		return "Info"
	case LevelDebug:
		return "Debug"
	default:
		return fmt.Sprintf("Level(%d)", int32(l))
	}
}

// MarshalText 实现 encoding.TextMarshaler，支持配置序列化场景。
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，支持从设置文件直接反序列化级别。
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 解析级别名，大小写不敏感，输入自动 TrimSpace。
// 接受全部级别名以及 verbose（等同 debug）和 warn 缩写。
// 无法识别时返回包装了 [ErrUnknownLevel] 的错误，错误信息点名原始值。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "notset":
		return LevelNotSet, nil
	case "off":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "info":
		return LevelInfo, nil
	case "debug", "verbose":
		return LevelDebug, nil
	default:
		return LevelNotSet, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

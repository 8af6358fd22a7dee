package xtrace

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/omeyang/tracekit/pkg/util/xproc"
)

// 自动初始化读取的环境变量
const (
	// EnvTraceLog 目标文件路径模式，支持一个 {pid} 占位符。
	// 未设置时使用 "<进程名>_trace.{pid}.log"。
	EnvTraceLog = "XTRACE_LOG"

	// EnvTraceLevel 追踪级别名，大小写不敏感。
	// 未设置时自动初始化取 Debug；无法识别的值是致命配置错误。
	EnvTraceLevel = "XTRACE_LEVEL"
)

// pidToken 路径模式中的进程号占位符
const pidToken = "{pid}"

// ExpandLogPattern 把路径模式中的 {pid} 展开为当前进程号。
// xsettings 与 tracectl 复用同一展开逻辑，各入口行为一致。
func ExpandLogPattern(pattern string) string {
	return strings.ReplaceAll(pattern, pidToken, strconv.Itoa(xproc.ProcessID()))
}

// defaultLogPattern 返回缺省路径模式。
// 进程名不可得时退化为无前缀的 "trace.{pid}.log"。
func defaultLogPattern() string {
	if name := xproc.ProcessName(); name != "" {
		return name + "_trace." + pidToken + ".log"
	}
	return "trace." + pidToken + ".log"
}

// LogPathFromEnv 返回自动初始化使用的目标路径：环境模式优先，缺省模式兜底。
func LogPathFromEnv() string {
	pattern := os.Getenv(EnvTraceLog)
	if pattern == "" {
		pattern = defaultLogPattern()
	}
	return ExpandLogPattern(pattern)
}

// LevelFromEnv 返回自动初始化使用的级别。
// 未设置与显式 NotSet 都落到 Debug；无法识别的值原样带着变量名返回。
func LevelFromEnv() (Level, error) {
	raw := os.Getenv(EnvTraceLevel)
	if raw == "" {
		return LevelDebug, nil
	}
	level, err := ParseLevel(raw)
	if err != nil {
		return LevelNotSet, fmt.Errorf("parse %s: %w", EnvTraceLevel, err)
	}
	if level == LevelNotSet {
		return LevelDebug, nil
	}
	return level, nil
}

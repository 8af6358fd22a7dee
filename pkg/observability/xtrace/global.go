package xtrace

import (
	"sync"
	"sync/atomic"
)

// =============================================================================
// 进程级默认 Writer
//
// 定位：运行器自身的诊断输出，一个进程一份。
// 需要隔离的场景（测试、多实例嵌入）显式构造独立 Writer。
// =============================================================================

// globalWriter 进程级默认 Writer（并发安全）
var globalWriter atomic.Pointer[Writer]

// globalMu 保护 globalOnce 及其 Do 执行（也用于 ResetDefault）
var globalMu sync.Mutex

// globalOnce 确保默认 Writer 只构造一次
var globalOnce sync.Once

// defaultWriter 惰性构造默认 Writer。
//
// 设计决策: 在持锁状态下执行 once.Do，确保 ResetDefault 重置 globalOnce
// 时不与 Do 并发（覆盖 sync.Once 内部状态会导致 fatal）。构造完成后
// Default() 走 atomic.Load 快速路径，不再进入此函数。
func defaultWriter() *Writer {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalOnce.Do(func() {
		globalWriter.Store(NewWriter())
	})
	return globalWriter.Load()
}

// Default 返回进程级默认 Writer。
//
// 首次调用惰性构造；构造本身不建档也不读环境，
// 第一次写入才触发自动初始化。
func Default() *Writer {
	if w := globalWriter.Load(); w != nil {
		return w
	}
	return defaultWriter()
}

// SetDefault 替换进程级默认 Writer。
//
// 传入 nil 会被忽略（不修改当前实例）；
// 要回到惰性构造的默认实例，用 ResetDefault。
func SetDefault(w *Writer) {
	if w == nil {
		return
	}
	globalWriter.Store(w)
}

// ResetDefault 把默认 Writer 重置为未构造状态（仅用于测试）。
// 不关闭旧实例的文件句柄，需要时调用方先 Close。
func ResetDefault() {
	globalMu.Lock()
	globalWriter.Store(nil)
	globalOnce = sync.Once{}
	globalMu.Unlock()
}

// =============================================================================
// 便利函数：与 Writer 方法一一对应
// =============================================================================

// Initialize 设定默认 Writer 的目标路径与级别。
func Initialize(path string, level Level) error {
	return Default().Initialize(path, level)
}

// InitializeLevel 只设定默认 Writer 的级别，路径取环境模式。
func InitializeLevel(level Level) error {
	return Default().InitializeLevel(level)
}

// InitializeFromEnv 按环境变量自动初始化默认 Writer。
func InitializeFromEnv() error {
	return Default().InitializeFromEnv()
}

// GetLogger 从默认 Writer 获取命名 Logger。
func GetLogger(name string, opts ...LoggerOption) *Logger {
	return Default().GetLogger(name, opts...)
}

// GetLoggerFor 以 v 的动态类型名从默认 Writer 获取 Logger。
func GetLoggerFor(v any, opts ...LoggerOption) *Logger {
	return Default().GetLoggerFor(v, opts...)
}

// WriteLine 向默认 Writer 追加一行原始文本。
func WriteLine(text string) error {
	return Default().WriteLine(text)
}

// Close 关闭默认 Writer 的文件句柄。
func Close() error {
	return Default().Close()
}

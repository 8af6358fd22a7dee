package xtrace

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Logger 命名追踪句柄。
//
// 除级别的一次性解析外完全不可变，自身不持锁，所有有状态操作都
// 委托给 Writer——正确性完全归结为 Writer 的锁纪律。Writer 的生命
// 周期覆盖从它派生的全部 Logger。
//
// 级别为 LevelNotSet 的 Logger 在首次记录时解析为 Writer 当时的
// 默认级别并就此固定：先创建 Logger、后 Initialize(Info)、再记录，
// 生效级别是 Info 而不是创建时刻的值。
type Logger struct {
	writer *Writer
	name   string
	level  atomic.Int32 // LevelNotSet 表示尚未解析
	echo   bool
}

// newLogger 由 Writer.GetLogger 调用。
func newLogger(w *Writer, name string, cfg loggerConfig) *Logger {
	l := &Logger{
		writer: w,
		name:   shortName(name),
		echo:   cfg.echo,
	}
	l.level.Store(int32(cfg.level))
	return l
}

// shortName 取点分限定名的末段；没有点号时返回整个名字。
func shortName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// Name 返回 Logger 的显示名。
func (l *Logger) Name() string {
	return l.name
}

// Level 返回 Logger 当前的级别；尚未解析时为 LevelNotSet。
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// Echo 报告通过过滤的行是否回显到控制台。
func (l *Logger) Echo() bool {
	return l.echo
}

// Error 记录一条 Error 级别消息。
func (l *Logger) Error(message string) error {
	return l.log(LevelError, message)
}

// Errorf 按 printf 模板记录一条 Error 级别消息。
func (l *Logger) Errorf(format string, args ...any) error {
	return l.logf(LevelError, format, args...)
}

// Warning 记录一条 Warning 级别消息。
func (l *Logger) Warning(message string) error {
	return l.log(LevelWarning, message)
}

// Warningf 按 printf 模板记录一条 Warning 级别消息。
func (l *Logger) Warningf(format string, args ...any) error {
	return l.logf(LevelWarning, format, args...)
}

// Info 记录一条 Info 级别消息。
func (l *Logger) Info(message string) error {
	return l.log(LevelInfo, message)
}

// Infof 按 printf 模板记录一条 Info 级别消息。
func (l *Logger) Infof(format string, args ...any) error {
	return l.logf(LevelInfo, format, args...)
}

// Debug 记录一条 Debug 级别消息。
func (l *Logger) Debug(message string) error {
	return l.log(LevelDebug, message)
}

// Debugf 按 printf 模板记录一条 Debug 级别消息。
func (l *Logger) Debugf(format string, args ...any) error {
	return l.logf(LevelDebug, format, args...)
}

func (l *Logger) log(level Level, message string) error {
	ok, err := l.enabled(level)
	if err != nil || !ok {
		return err
	}
	return l.writer.WriteEntry(l, level, message)
}

// logf 的级别检查在格式化之前，被过滤的调用不做任何 Sprintf 工作。
func (l *Logger) logf(level Level, format string, args ...any) error {
	ok, err := l.enabled(level)
	if err != nil || !ok {
		return err
	}
	return l.writer.WriteEntry(l, level, fmt.Sprintf(format, args...))
}

// enabled 判定 level 是否通过过滤。
//
// 自身级别为 NotSet 时，此刻对 Writer 的默认级别解析并 CAS 固定；
// Writer 尚未初始化时解析本身会触发自动初始化。并发的首次记录可能
// 各自解析，CAS 保证只有一个结果写入，其余调用读取已固定的值。
func (l *Logger) enabled(level Level) (bool, error) {
	effective := Level(l.level.Load())
	if effective == LevelNotSet {
		resolved, err := l.writer.resolveDefaultLevel()
		if err != nil {
			return false, err
		}
		l.level.CompareAndSwap(int32(LevelNotSet), int32(resolved))
		effective = Level(l.level.Load())
	}
	return effective >= level, nil
}

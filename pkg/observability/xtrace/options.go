package xtrace

import "io"

// Option Writer 构造选项
type Option func(*Writer)

// WithOutput 把 Writer 绑定到注入的输出目标，替代文件路径机制。
// 绑定后不再有延迟建档，也不写重定向标记，Initialize 只调整级别。
// 注入目标的生命周期归调用方，[Writer.Close] 不会关闭它。
// 主要用于测试与嵌入场景。
func WithOutput(out io.Writer) Option {
	return func(w *Writer) {
		w.out = out
	}
}

// WithConsole 替换回显目标（默认 os.Stdout）。
// 测试用它捕获 echo Logger 的控制台输出。
func WithConsole(console io.Writer) Option {
	return func(w *Writer) {
		w.console = console
	}
}

// LoggerOption Logger 构造选项
type LoggerOption func(*loggerConfig)

// loggerConfig GetLogger 的可选参数集
type loggerConfig struct {
	level Level
	echo  bool
}

// WithLevel 固定 Logger 自身的级别。
// 缺省为 LevelNotSet：首次记录时继承 Writer 当时的默认级别并就此固定。
func WithLevel(level Level) LoggerOption {
	return func(c *loggerConfig) {
		c.level = level
	}
}

// WithEcho 让通过过滤的行同时原样回显到控制台目标。
func WithEcho() LoggerOption {
	return func(c *loggerConfig) {
		c.echo = true
	}
}

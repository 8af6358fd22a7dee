package xtrace

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/omeyang/tracekit/pkg/util/xfile"
)

// filePerm 追踪文件的创建权限。追踪输出面向操作员排障，默认可读。
const filePerm os.FileMode = 0o644

// entryTimeLayout 记录行时间戳：本地时钟，毫秒精度
const entryTimeLayout = "15:04:05.000"

// 重定向哨兵行前缀。写侧在切换目标时落盘；读侧（xtail）按同样的
// 字面量把前后文件解析成链。
const (
	MarkerContinues     = "Log continues in file "
	MarkerContinuedFrom = "Log continued from "
)

// sinkState 当前目标的文件状态机
type sinkState int

const (
	sinkUnopened sinkState = iota // 目标已定，文件尚未创建
	sinkOpen                      // 句柄打开
	sinkClosed                    // 句柄已关闭；再写会按追加重新打开
)

// Writer 是追踪输出目标的唯一持有者。
//
// 全部状态由单个互斥锁保护，所有写入跨 goroutine 串行——这是有意的
// 瓶颈：追踪输出本就应当低频少量。文件在第一次真实写入时才创建
// （从不在 Initialize 时创建），每次写入直达 os.File，无用户态缓冲，
// 崩溃时文件尾部即是最后完成的写入。
//
// 运行中允许把目标切到新路径：旧文件末尾追加
// "Log continues in file <新路径>"，新文件首行写 "Log continued from <旧路径>"，
// 两行哨兵把前后文件链起来（只有旧目标已写过内容时才产生）。
//
// 未显式初始化时，第一次写入自动应用环境配置（见 [EnvTraceLog]、
// [EnvTraceLevel]），写入调用永远不会因"未初始化"而失败。
type Writer struct {
	mu sync.Mutex

	path  string    // 当前目标路径；绑定注入输出时恒为空
	out   io.Writer // 注入输出（WithOutput），非 nil 时路径机制整体停用
	file  *os.File  // 延迟创建的文件句柄
	state sinkState

	console io.Writer // 回显目标，默认 os.Stdout

	initialized  bool  // 单调：一旦 true 不再回退
	defaultLevel Level // 初始化前为 LevelNotSet
	lines        int   // 当前目标自成为目标以来写入的行数（哨兵与公告行同样计数）

	// history 记录生命周期内写过的所有路径。
	// 命中的路径按追加打开（重定向回旧文件、Close 后再写都不丢内容），
	// 全新路径按创建并截断打开。
	history map[string]struct{}

	// pendingOrigin 重定向后待写入新文件首行的来源哨兵，
	// 延迟到新文件真正打开时落盘，先于任何公告行；
	// 目标在打开前又被重定向走时随之作废。
	pendingOrigin string
}

// NewWriter 构造一个未初始化的 Writer。
// 构造本身不碰文件系统也不读环境；一切推迟到 Initialize 或第一次写入。
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		console: os.Stdout,
		history: make(map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// =============================================================================
// 初始化
// =============================================================================

// Initialize 设定目标路径与默认级别。
//
// 重复调用总是生效，级别与路径都以最后一次为准；需要"只初始化一次"
// 语义的调用方自行在上层把关。level 为 LevelNotSet 时从环境解析
// （缺省 Debug）。级别高于 Off 时写入一行
// "Initializing at level <级别>" 公告。
//
// 公告写入失败时错误原样返回，已生效的目标切换不回滚（旧文件可能已
// 落盘 continues 哨兵）。首次初始化就此失败的 Writer 保持未初始化，
// 下一次写入由环境自动初始化接管目标；再初始化失败则停留在新目标上，
// 后续写入就地重试。
func (w *Writer) Initialize(path string, level Level) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.initializeLocked(path, level, false)
}

// InitializeLevel 只设定级别，目标路径取环境模式（缺省进程名模式）。
func (w *Writer) InitializeLevel(level Level) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.initializeLocked(LogPathFromEnv(), level, false)
}

// InitializeFromEnv 全自动初始化：路径与级别都来自环境变量，
// 级别未设置时取 Debug。公告行使用 "Initializing automatically ..."
// 措辞以区别于显式初始化。级别值无法识别时返回配置错误，绝不静默。
func (w *Writer) InitializeFromEnv() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.initializeFromEnvLocked()
}

func (w *Writer) initializeFromEnvLocked() error {
	return w.initializeLocked(LogPathFromEnv(), LevelNotSet, true)
}

// initializeLocked 完成一次初始化。调用方必须持有 w.mu。
// initialized 置位是成功路径的最后一步。
func (w *Writer) initializeLocked(path string, level Level, auto bool) error {
	if level == LevelNotSet {
		resolved, err := LevelFromEnv()
		if err != nil {
			return err
		}
		level = resolved
	}

	if w.out == nil {
		sanitized, err := xfile.SanitizePath(path)
		if err != nil {
			return err
		}
		if err := w.redirectLocked(sanitized); err != nil {
			return err
		}
	}

	w.defaultLevel = level

	if level > LevelOff {
		text := "Initializing at level " + level.String()
		if auto {
			text = "Initializing automatically at level " + level.String()
		}
		if err := w.writeLineLocked(text); err != nil {
			return err
		}
	}

	w.initialized = true
	return nil
}

// redirectLocked 把目标切到 path，按需写入链接哨兵。调用方必须持有 w.mu。
//
// 旧目标写过内容时：旧文件末尾追加 continues 哨兵、关闭旧句柄、
// 记下待写入新文件首行的 continued 哨兵。旧目标从未写过时静默切换，
// 不留任何痕迹，尚未落盘的来源哨兵也一并丢弃：零行重定向不产生
// 任何哨兵。
func (w *Writer) redirectLocked(path string) error {
	if path == w.path {
		return nil
	}

	if w.lines > 0 {
		if err := w.writeLineLocked(MarkerContinues + path); err != nil {
			return err
		}
		if err := w.closeFileLocked(); err != nil {
			return err
		}
		w.pendingOrigin = MarkerContinuedFrom + w.path
	} else {
		if err := w.closeFileLocked(); err != nil {
			return err
		}
		// 零行目标被放弃，指向它的待写来源哨兵随之作废
		w.pendingOrigin = ""
	}

	w.path = path
	w.lines = 0
	w.state = sinkUnopened
	return nil
}

// =============================================================================
// 写入
// =============================================================================

// WriteLine 向当前目标追加一行原始文本（加平台行终止符）。
// 未初始化时先走自动初始化；文件延迟到此刻才打开。
// I/O 失败同步返回，单次尝试不重试。
func (w *Writer) WriteLine(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ensureInitializedLocked(); err != nil {
		return err
	}
	return w.writeLineLocked(text)
}

// WriteEntry 格式化并写入一条记录行：
//
//	HH:mm:ss.fff LEVEL [threadId] LoggerName: message
//
// logger 要求回显时，同一行原样写到控制台目标。
// 时间戳在锁内获取，文件中的行序与时间戳序一致。
func (w *Writer) WriteEntry(logger *Logger, level Level, message string) error {
	name, echo := "", false
	if logger != nil {
		name, echo = logger.Name(), logger.echo
	}
	gid := goroutineID()

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ensureInitializedLocked(); err != nil {
		return err
	}

	line := formatEntry(time.Now(), level, gid, name, message)
	if err := w.writeLineLocked(line); err != nil {
		return err
	}
	if echo {
		if _, err := io.WriteString(w.console, line+lineEnding); err != nil {
			return fmt.Errorf("echo trace line: %w", err)
		}
	}
	return nil
}

// formatEntry 渲染一条记录行。级别名左对齐最少 5 列，
// goroutine 编号右对齐最少 2 列。
func formatEntry(now time.Time, level Level, gid int, name, message string) string {
	return fmt.Sprintf("%s %-5s [%2d] %s: %s",
		now.Format(entryTimeLayout), level.String(), gid, name, message)
}

// ensureInitializedLocked 写入前的自动初始化兜底。调用方必须持有 w.mu。
func (w *Writer) ensureInitializedLocked() error {
	if w.initialized {
		return nil
	}
	return w.initializeFromEnvLocked()
}

// writeLineLocked 不经初始化检查直接追加一行。调用方必须持有 w.mu。
// 初始化内部的公告与哨兵写入走这里，避免与自动初始化互相递归。
func (w *Writer) writeLineLocked(text string) error {
	sink, err := w.sinkLocked()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(sink, text+lineEnding); err != nil {
		return fmt.Errorf("write trace line: %w", err)
	}
	w.lines++
	return nil
}

// sinkLocked 返回可写目标。状态机的唯一迁移守卫在这里：
// 非 sinkOpen 状态按需打开文件，重定向来源哨兵在打开后、
// 任何其他行之前落盘。
func (w *Writer) sinkLocked() (io.Writer, error) {
	if w.out != nil {
		return w.out, nil
	}
	if w.state != sinkOpen {
		if err := w.openLocked(); err != nil {
			return nil, err
		}
		if w.pendingOrigin != "" {
			origin := w.pendingOrigin
			w.pendingOrigin = ""
			if _, err := io.WriteString(w.file, origin+lineEnding); err != nil {
				return nil, fmt.Errorf("write trace line: %w", err)
			}
			w.lines++
		}
	}
	return w.file, nil
}

// openLocked 打开当前目标文件。调用方必须持有 w.mu。
// 父目录按需创建，让 "logs/run.{pid}.log" 这类模式在全新工作区可用。
func (w *Writer) openLocked() error {
	if err := xfile.EnsureParentDir(w.path); err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if _, seen := w.history[w.path]; seen {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(w.path, flags, filePerm)
	if err != nil {
		return fmt.Errorf("open trace file %s: %w", w.path, err)
	}

	w.file = f
	w.state = sinkOpen
	w.history[w.path] = struct{}{}
	return nil
}

// =============================================================================
// Logger 工厂
// =============================================================================

// GetLogger 返回绑定到本 Writer 的命名 Logger。
// name 为点分限定名时取末段作为显示名；未指定级别的 Logger
// 在首次记录时继承 Writer 当时的默认级别并就此固定。
func (w *Writer) GetLogger(name string, opts ...LoggerOption) *Logger {
	cfg := loggerConfig{level: LevelNotSet}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return newLogger(w, name, cfg)
}

// GetLoggerFor 以 v 的动态类型名作为 Logger 名称。
// "%T" 产出的 "*pkg.Type" 经末段规则折叠为短名 "Type"。
func (w *Writer) GetLoggerFor(v any, opts ...LoggerOption) *Logger {
	return w.GetLogger(fmt.Sprintf("%T", v), opts...)
}

// resolveDefaultLevel 供 Logger 解析 NotSet 级别。
// Writer 未初始化时先走自动初始化，保证返回的默认级别是确定值。
func (w *Writer) resolveDefaultLevel() (Level, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ensureInitializedLocked(); err != nil {
		return LevelNotSet, err
	}
	return w.defaultLevel, nil
}

// =============================================================================
// 状态访问与关闭
// =============================================================================

// Initialized 报告 Writer 是否已初始化（显式或自动）。
func (w *Writer) Initialized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.initialized
}

// DefaultLevel 返回当前默认级别；未初始化时为 LevelNotSet。
// 纯读取，不触发自动初始化。
func (w *Writer) DefaultLevel() Level {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.defaultLevel
}

// LinesWritten 返回当前目标自成为目标以来写入的行数。
func (w *Writer) LinesWritten() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lines
}

// Path 返回当前目标路径；绑定注入输出时为空字符串。
func (w *Writer) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Close 关闭并释放文件句柄。幂等：重复调用、或从未打开过文件时
// 都安全返回 nil。initialized 不回退；之后再写入会按追加重新打开
// 同一目标，行计数不清零（目标没有变）。
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeFileLocked()
}

// closeFileLocked 关闭文件句柄（若打开）。调用方必须持有 w.mu。
func (w *Writer) closeFileLocked() error {
	if w.state != sinkOpen {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	w.state = sinkClosed
	if err != nil {
		return fmt.Errorf("close trace file %s: %w", w.path, err)
	}
	return nil
}

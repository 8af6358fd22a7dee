package xtail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/omeyang/tracekit/pkg/observability/xtrace"
)

// LineFunc 接收 Follow 吐出的每一行（不含行终止符）。
// 返回非 nil 错误即终止跟随。
type LineFunc func(line string) error

// follower 单次 Follow 调用的游标状态
type follower struct {
	fn      LineFunc
	opts    *options
	current string           // 正在跟随的文件
	offsets map[string]int64 // 每个文件已消费的字节数；重定向切回旧文件时从断点续读
	carry   string           // 当前文件尾部尚未见到行终止符的残片
}

// Follow 实时跟随 path 的追踪输出：先吐出已有内容，此后每当文件
// 增长就吐出新的完整行；读到后继哨兵时透明跳转到新目标文件，
// 目标尚未创建（延迟建档）则等待其出现。
//
// 目录通过 fsnotify 监视（监视父目录而非文件本身，避免文件重建时
// 丢事件），另按 WithPollInterval 的间隔轮询兜底。正常返回只有两条
// 路径：ctx 取消返回 ctx.Err()，fn 报错则包装上抛。
func Follow(ctx context.Context, path string, fn LineFunc, opts ...Option) error {
	if fn == nil {
		return fmt.Errorf("xtail: nil line handler")
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("xtail: create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	fw := &follower{
		fn:      fn,
		opts:    o,
		current: filepath.Clean(path),
		offsets: make(map[string]int64),
	}

	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	watchedDir := ""
	for {
		// 跟随目标随重定向变化，目录监视跟着迁移
		if dir := filepath.Dir(fw.current); dir != watchedDir {
			if watchedDir != "" {
				_ = watcher.Remove(watchedDir)
			}
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("xtail: watch directory %s: %w", dir, err)
			}
			watchedDir = dir
		}

		hopped, err := fw.drain()
		if err != nil {
			return err
		}
		if hopped {
			continue // 新文件立即补读，不等事件
		}

		if err := fw.await(ctx, watcher, ticker.C); err != nil {
			return err
		}
	}
}

// await 阻塞到下一次需要重读为止：当前文件的目录事件、轮询节拍
// 任一触发即返回 nil；ctx 取消或监视故障返回错误。
func (fw *follower) await(ctx context.Context, watcher *fsnotify.Watcher, tick <-chan time.Time) error {
	base := filepath.Base(fw.current)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("xtail: watcher closed")
			}
			if filepath.Base(event.Name) == base {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("xtail: watcher closed")
			}
			return fmt.Errorf("xtail: watch: %w", err)
		case <-tick:
			return nil
		}
	}
}

// drain 读出当前文件自上次游标以来的全部完整行并交给 fn。
// 读到后继哨兵行时把游标切到新目标并报告 hopped。
func (fw *follower) drain() (hopped bool, err error) {
	f, err := os.Open(fw.current)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil // 延迟建档：目标还没出现，继续等
		}
		return false, fmt.Errorf("xtail: open %s: %w", fw.current, err)
	}
	defer func() { _ = f.Close() }()

	offset := fw.offsets[fw.current]
	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("xtail: stat %s: %w", fw.current, err)
	}
	if info.Size() < offset {
		// 文件被外部截断重建，从头重读
		offset = 0
		fw.carry = ""
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return false, fmt.Errorf("xtail: seek %s: %w", fw.current, err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return false, fmt.Errorf("xtail: read %s: %w", fw.current, err)
	}
	if len(data) == 0 {
		fw.offsets[fw.current] = offset
		return false, nil
	}
	fw.offsets[fw.current] = offset + int64(len(data))

	text := fw.carry + string(data)
	lines := strings.Split(text, "\n")
	fw.carry = lines[len(lines)-1] // 末段必然不带终止符，可能为空

	for _, line := range lines[:len(lines)-1] {
		line = strings.TrimSuffix(line, "\r")

		if target, found := strings.CutPrefix(line, xtrace.MarkerContinues); found && target != "" {
			if err := fw.emit(line); err != nil {
				return false, err
			}
			// Writer 写完哨兵即关闭旧文件，其后不会再有本链的内容
			fw.current = resolveTarget(fw.current, target)
			fw.carry = ""
			return true, nil
		}

		if err := fw.emit(line); err != nil {
			return false, err
		}
	}
	return false, nil
}

// emit 按选项过滤后把一行交给 fn。
func (fw *follower) emit(line string) error {
	if fw.opts.withoutMarkers && isMarker(line) {
		return nil
	}
	if err := fw.fn(line); err != nil {
		return fmt.Errorf("xtail: line handler: %w", err)
	}
	return nil
}

package xtail

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/omeyang/tracekit/pkg/observability/xtrace"
)

// resolveTarget 把哨兵行中的目标路径解析为以 base 所在目录为基准的完整路径。
func resolveTarget(base, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(filepath.Dir(base), target)
}

// isMarker 报告 line 是否为重定向哨兵行。
func isMarker(line string) bool {
	return strings.HasPrefix(line, xtrace.MarkerContinues) ||
		strings.HasPrefix(line, xtrace.MarkerContinuedFrom)
}

// Prev 解析 path 首行的来源哨兵，返回链上前一环的路径。
// 文件没有来源哨兵（或为空）时 ok 为 false。
func Prev(path string) (origin string, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("xtail: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", false, fmt.Errorf("xtail: read %s: %w", path, err)
		}
		return "", false, nil
	}

	target, found := strings.CutPrefix(scanner.Text(), xtrace.MarkerContinuedFrom)
	if !found || target == "" {
		return "", false, nil
	}
	return resolveTarget(path, target), true, nil
}

// Next 解析 path 末行的后继哨兵，返回链上后一环的路径。
// 只有作为最后一行出现的哨兵才算数：Writer 写入哨兵后立即关闭
// 旧文件，其后还有内容说明那只是恰好撞了前缀的普通文本。
func Next(path string) (successor string, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("xtail: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var last string
	seen := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		last = scanner.Text()
		seen = true
	}
	if err := scanner.Err(); err != nil {
		return "", false, fmt.Errorf("xtail: read %s: %w", path, err)
	}
	if !seen {
		return "", false, nil
	}

	target, found := strings.CutPrefix(last, xtrace.MarkerContinues)
	if !found || target == "" {
		return "", false, nil
	}
	return resolveTarget(path, target), true, nil
}

// Chain 从链上任意一环还原完整的重定向链，按写入先后排序。
// 先沿来源哨兵回溯到起点，再沿后继哨兵推进到末端；
// 遇到已访问过的路径时行走终止。链上文件缺失按底层 os 错误包装上抛。
func Chain(path string) ([]string, error) {
	start := filepath.Clean(path)
	chain := []string{start}
	visited := map[string]struct{}{start: {}}

	for {
		prev, ok, err := Prev(chain[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if _, dup := visited[prev]; dup {
			break
		}
		visited[prev] = struct{}{}
		chain = slices.Insert(chain, 0, prev)
	}

	for {
		next, ok, err := Next(chain[len(chain)-1])
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if _, dup := visited[next]; dup {
			break
		}
		visited[next] = struct{}{}
		chain = append(chain, next)
	}

	return chain, nil
}

// Dump 把 path 所在重定向链的全部内容按链序写入 w，
// 行终止符统一为 \n。WithoutMarkers 选项跳过哨兵行。
func Dump(w io.Writer, path string, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	chain, err := Chain(path)
	if err != nil {
		return err
	}
	for _, p := range chain {
		if err := dumpFile(w, p, o); err != nil {
			return err
		}
	}
	return nil
}

func dumpFile(w io.Writer, path string, o *options) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("xtail: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if o.withoutMarkers && isMarker(line) {
			continue
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("xtail: dump: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("xtail: read %s: %w", path, err)
	}
	return nil
}

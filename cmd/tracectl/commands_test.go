package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/tracekit/pkg/observability/xtrace"
)

// buildRedirectChain 用真实 Writer 产出一对重定向文件 a→b。
func buildRedirectChain(t *testing.T) (pathA, pathB string) {
	t.Helper()

	dir := t.TempDir()
	pathA = filepath.Join(dir, "a.log")
	pathB = filepath.Join(dir, "b.log")

	w := xtrace.NewWriter()
	if err := w.Initialize(pathA, xtrace.LevelDebug); err != nil {
		t.Fatalf("Initialize(a) error = %v", err)
	}
	if err := w.WriteLine("alpha"); err != nil {
		t.Fatalf("WriteLine(alpha) error = %v", err)
	}
	if err := w.Initialize(pathB, xtrace.LevelDebug); err != nil {
		t.Fatalf("Initialize(b) error = %v", err)
	}
	if err := w.WriteLine("beta"); err != nil {
		t.Fatalf("WriteLine(beta) error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return pathA, pathB
}

func TestUsageError(t *testing.T) {
	err := &usageError{msg: "test error"}
	if err.Error() != "test error" {
		t.Errorf("usageError.Error() = %q, want %q", err.Error(), "test error")
	}

	var target *usageError
	if !errors.As(err, &target) {
		t.Error("errors.As failed for *usageError")
	}
}

func TestIsCLIUsageError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"exit_coder", cli.Exit("No help topic for 'bogus'", 3), true},
		{"unknown_flag", errors.New("flag provided but not defined: -bogus"), true},
		{"invalid_value", errors.New(`invalid value "x" for flag -poll: parse error`), true},
		{"runtime_error", errors.New("open trace.log: no such file"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isCLIUsageError(tt.err); got != tt.want {
				t.Errorf("isCLIUsageError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCreateCommands(t *testing.T) {
	cmds := createCommands()
	if len(cmds) == 0 {
		t.Fatal("createCommands returned empty slice")
	}

	names := make(map[string]bool)
	for _, cmd := range cmds {
		names[cmd.Name] = true
	}

	expected := []string{"chain", "cat", "follow", "env"}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("missing command %q", name)
		}
	}
}

func TestCreateApp(t *testing.T) {
	app := createApp()
	if app.Name != "tracectl" {
		t.Errorf("Name = %q, want %q", app.Name, "tracectl")
	}
	if app.DefaultCommand != "help" {
		t.Errorf("DefaultCommand = %q, want %q", app.DefaultCommand, "help")
	}
	if !strings.Contains(app.Version, Version) {
		t.Errorf("Version = %q, want 包含 %q", app.Version, Version)
	}
}

func TestFileCommandsRequireExactlyOneArg(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"chain_no_file", []string{"tracectl", "chain"}},
		{"cat_no_file", []string{"tracectl", "cat"}},
		{"follow_no_file", []string{"tracectl", "follow"}},
		{"chain_two_files", []string{"tracectl", "chain", "a.log", "b.log"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := createApp().Run(context.Background(), tt.args)
			if err == nil {
				t.Fatal("缺少或多余的文件参数应报错")
			}
			var usageErr *usageError
			if !errors.As(err, &usageErr) {
				t.Fatalf("expected *usageError, got %T: %v", err, err)
			}
		})
	}
}

func TestCmdChain(t *testing.T) {
	pathA, pathB := buildRedirectChain(t)

	var out strings.Builder
	if err := cmdChain(context.Background(), &out, pathB); err != nil {
		t.Fatalf("cmdChain() error = %v", err)
	}

	want := pathA + "\n" + pathB + "\n"
	if out.String() != want {
		t.Errorf("cmdChain 输出 = %q, want %q", out.String(), want)
	}
}

func TestCmdChainMissingFile(t *testing.T) {
	var out strings.Builder
	err := cmdChain(context.Background(), &out, filepath.Join(t.TempDir(), "absent.log"))
	if err == nil {
		t.Fatal("文件缺失应报错")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("错误应可识别为 fs.ErrNotExist: %v", err)
	}

	var usageErr *usageError
	if errors.As(err, &usageErr) {
		t.Error("运行期错误不应是 usageError")
	}
}

func TestCmdChainCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	err := cmdChain(ctx, &out, "whatever.log")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestCmdCat(t *testing.T) {
	pathA, pathB := buildRedirectChain(t)

	var out strings.Builder
	if err := cmdCat(context.Background(), &out, pathA, false); err != nil {
		t.Fatalf("cmdCat() error = %v", err)
	}

	want := strings.Join([]string{
		"Initializing at level Debug",
		"alpha",
		"Log continues in file " + pathB,
		"Log continued from " + pathA,
		"Initializing at level Debug",
		"beta",
	}, "\n") + "\n"
	if out.String() != want {
		t.Errorf("cmdCat 输出 = %q, want %q", out.String(), want)
	}
}

func TestCmdCatNoMarkers(t *testing.T) {
	pathA, _ := buildRedirectChain(t)

	var out strings.Builder
	if err := cmdCat(context.Background(), &out, pathA, true); err != nil {
		t.Fatalf("cmdCat() error = %v", err)
	}

	want := strings.Join([]string{
		"Initializing at level Debug",
		"alpha",
		"Initializing at level Debug",
		"beta",
	}, "\n") + "\n"
	if out.String() != want {
		t.Errorf("cmdCat 输出 = %q, want %q", out.String(), want)
	}
}

// syncBuffer 并发安全的输出收集器，follow 测试用。
type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCmdFollowStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.log")
	if err := os.WriteFile(path, []byte("one\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- cmdFollow(ctx, out, path, false, 10*time.Millisecond)
	}()

	deadline := time.After(5 * time.Second)
	for out.String() == "" {
		select {
		case <-deadline:
			t.Fatal("等待 follow 输出超时")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("取消后 cmdFollow 应返回 nil, got: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("等待 cmdFollow 退出超时")
	}

	if got := out.String(); got != "one\n" {
		t.Errorf("follow 输出 = %q, want %q", got, "one\n")
	}
}

func TestCmdEnv(t *testing.T) {
	t.Setenv(xtrace.EnvTraceLog, "logs/run.{pid}.log")
	t.Setenv(xtrace.EnvTraceLevel, "warning")

	var out strings.Builder
	if err := cmdEnv(&out); err != nil {
		t.Fatalf("cmdEnv() error = %v", err)
	}

	want := fmt.Sprintf("目标文件: logs/run.%d.log\n追踪级别: Warning\n", os.Getpid())
	if out.String() != want {
		t.Errorf("cmdEnv 输出 = %q, want %q", out.String(), want)
	}
}

func TestCmdEnvBadLevel(t *testing.T) {
	t.Setenv(xtrace.EnvTraceLevel, "loudest")

	var out strings.Builder
	err := cmdEnv(&out)
	if err == nil {
		t.Fatal("无法识别的级别值应报错")
	}
	if !errors.Is(err, xtrace.ErrUnknownLevel) {
		t.Errorf("错误应可识别为 ErrUnknownLevel: %v", err)
	}
	if out.String() != "" {
		t.Errorf("报错时不应产生输出, got %q", out.String())
	}
}

package xtrace_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/omeyang/tracekit/pkg/observability/xtrace"
)

// 全局 facade 测试共享进程级状态，不并行。

func TestDefault_LazyInit(t *testing.T) {
	xtrace.ResetDefault()
	defer xtrace.ResetDefault()

	w := xtrace.Default()
	if w == nil {
		t.Fatal("Default() 不应返回 nil")
	}
	if w2 := xtrace.Default(); w2 != w {
		t.Error("重复调用 Default() 应返回同一实例")
	}
	if w.Initialized() {
		t.Error("惰性构造的默认 Writer 不应已初始化")
	}
}

func TestSetDefault(t *testing.T) {
	xtrace.ResetDefault()
	defer xtrace.ResetDefault()

	var buf bytes.Buffer
	custom := xtrace.NewWriter(xtrace.WithOutput(&buf))
	xtrace.SetDefault(custom)

	if got := xtrace.Default(); got != custom {
		t.Error("SetDefault 后 Default() 应返回注入实例")
	}

	// nil 注入被忽略
	xtrace.SetDefault(nil)
	if got := xtrace.Default(); got != custom {
		t.Error("SetDefault(nil) 不应替换现有实例")
	}
}

func TestResetDefault(t *testing.T) {
	xtrace.ResetDefault()
	defer xtrace.ResetDefault()

	first := xtrace.Default()
	xtrace.ResetDefault()
	if second := xtrace.Default(); second == first {
		t.Error("ResetDefault 后应惰性构造新实例")
	}
}

func TestGlobalFacade_RoundTrip(t *testing.T) {
	xtrace.ResetDefault()
	defer xtrace.ResetDefault()

	var buf bytes.Buffer
	xtrace.SetDefault(xtrace.NewWriter(xtrace.WithOutput(&buf)))

	if err := xtrace.InitializeLevel(xtrace.LevelInfo); err != nil {
		t.Fatalf("InitializeLevel() error = %v", err)
	}
	if err := xtrace.GetLogger("Facade.User").Info("via facade"); err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if err := xtrace.GetLoggerFor(tracedComponent{}).Debug("filtered"); err != nil {
		t.Fatalf("Debug() error = %v", err)
	}
	if err := xtrace.WriteLine("raw facade line"); err != nil {
		t.Fatalf("WriteLine() error = %v", err)
	}
	if err := xtrace.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	text := strings.ReplaceAll(buf.String(), "\r\n", "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("行数 = %d, want 3: %q", len(lines), lines)
	}
	if lines[0] != "Initializing at level Info" {
		t.Errorf("首行 = %q, want 公告行", lines[0])
	}
	if !strings.HasSuffix(lines[1], "User: via facade") {
		t.Errorf("记录行 = %q", lines[1])
	}
	if lines[2] != "raw facade line" {
		t.Errorf("末行 = %q, want 原始行", lines[2])
	}
}

func TestGlobalFacade_InitializeToFile(t *testing.T) {
	xtrace.ResetDefault()
	defer func() {
		_ = xtrace.Close()
		xtrace.ResetDefault()
	}()

	path := filepath.Join(t.TempDir(), "facade.log")
	if err := xtrace.Initialize(path, xtrace.LevelDebug); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := xtrace.GetLogger("Boot").Debug("facade to file"); err != nil {
		t.Fatalf("Debug() error = %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != 2 {
		t.Fatalf("行数 = %d, want 2: %q", len(lines), lines)
	}
	if !strings.HasSuffix(lines[1], "Boot: facade to file") {
		t.Errorf("记录行 = %q", lines[1])
	}
}

func TestGlobalFacade_SelfInitializeFromEnv(t *testing.T) {
	xtrace.ResetDefault()
	defer func() {
		_ = xtrace.Close()
		xtrace.ResetDefault()
	}()

	path := filepath.Join(t.TempDir(), "facade-auto.log")
	t.Setenv(xtrace.EnvTraceLog, path)
	t.Setenv(xtrace.EnvTraceLevel, "warning")

	if err := xtrace.WriteLine("ambient"); err != nil {
		t.Fatalf("WriteLine() error = %v", err)
	}

	lines := readLines(t, path)
	want := []string{
		"Initializing automatically at level Warning",
		"ambient",
	}
	if len(lines) != 2 || lines[0] != want[0] || lines[1] != want[1] {
		t.Errorf("文件内容 = %q, want %q", lines, want)
	}
}

package xtrace

import (
	"errors"
	"strings"
	"testing"
)

// FuzzParseLevel 验证解析从不恐慌，且成功解析的值与 String() 互逆。
func FuzzParseLevel(f *testing.F) {
	f.Add("debug")
	f.Add("Verbose")
	f.Add("OFF")
	f.Add("  warning  ")
	f.Add("notset")
	f.Add("")
	f.Add("信息")

	f.Fuzz(func(t *testing.T, input string) {
		level, err := ParseLevel(input)
		if err != nil {
			if !errors.Is(err, ErrUnknownLevel) {
				t.Errorf("ParseLevel(%q) 错误类型不符: %v", input, err)
			}
			return
		}
		// 成功解析的级别必须能经 String() 回到自身
		back, err := ParseLevel(level.String())
		if err != nil {
			t.Fatalf("ParseLevel(%q.String()) error = %v", level, err)
		}
		if back != level {
			t.Errorf("往返不一致: %q -> %v -> %v", input, level, back)
		}
	})
}

// FuzzShortName 验证末段折叠的不变量：结果不含点号且不长于输入。
func FuzzShortName(f *testing.F) {
	f.Add("Framework.Internal.TestRunner")
	f.Add("Simple")
	f.Add("*pkg.Type")
	f.Add("trailing.")
	f.Add("")
	f.Add("中.文.名")

	f.Fuzz(func(t *testing.T, full string) {
		got := shortName(full)
		if strings.Contains(got, ".") {
			t.Errorf("shortName(%q) = %q 仍含点号", full, got)
		}
		if len(got) > len(full) {
			t.Errorf("shortName(%q) = %q 比输入还长", full, got)
		}
		if !strings.Contains(full, ".") && got != full {
			t.Errorf("无点号输入应原样返回: shortName(%q) = %q", full, got)
		}
	})
}

// FuzzExpandLogPattern 验证展开后绝不残留占位符。
func FuzzExpandLogPattern(f *testing.F) {
	f.Add("trace.{pid}.log")
	f.Add("plain.log")
	f.Add("{pid}{pid}")
	f.Add("{pid{pid}}")
	f.Add("")

	f.Fuzz(func(t *testing.T, pattern string) {
		got := ExpandLogPattern(pattern)
		if strings.Contains(got, pidToken) {
			t.Errorf("ExpandLogPattern(%q) = %q 残留占位符", pattern, got)
		}
		if !strings.Contains(pattern, pidToken) && got != pattern {
			t.Errorf("无占位符输入应原样返回: %q -> %q", pattern, got)
		}
	})
}

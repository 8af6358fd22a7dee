package xproc

import (
	"os"
	"path/filepath"
	"sync"
)

// osExecutable 是 os.Executable 的包级变量，供测试注入失败分支。
//
// 设计决策: 包级变量注入是本仓库统一的轻量 mock 方式。xproc 只有
// 两个导出函数，引入接口抽象的收益抵不上调用方的使用成本。
var osExecutable = os.Executable

// 进程名在进程生命周期内不变，首次解析后永久缓存。
var (
	nameOnce  sync.Once
	nameValue string
)

// ProcessID 返回当前进程 ID。
// 追踪文件默认名中的 {pid} 占位符由该值展开。
func ProcessID() int {
	return os.Getpid()
}

// shortBase 返回路径的纯文件名部分。
// filepath.Base 对根路径和点路径返回 "."、".." 或分隔符本身，
// 这些值作为进程名没有意义，统一折叠为空字符串。
func shortBase(path string) string {
	if path == "" {
		return ""
	}
	switch name := filepath.Base(path); name {
	case ".", "..", string(filepath.Separator):
		return ""
	default:
		return name
	}
}

// resolveName 解析进程名：优先 os.Executable（不受 os.Args 篡改影响），
// 失败时回退 os.Args[0]，两者皆不可用时返回空字符串。
func resolveName() string {
	if exe, err := osExecutable(); err == nil {
		if name := shortBase(exe); name != "" {
			return name
		}
	}
	if len(os.Args) == 0 {
		return ""
	}
	return shortBase(os.Args[0])
}

// ProcessName 返回当前进程的可执行文件名（不含路径）。
// 追踪设施用它构造默认日志文件名（如 "<进程名>_trace.<pid>.log"），
// 获取失败时返回空字符串，调用方应自行兜底。
//
// 设计决策: 解析结果（包括失败的空字符串）永久缓存，不重试。进程标识
// 在启动时即确定，os.Executable 与 os.Args[0] 同时失效的场景仅存在于
// 测试注入，重试只会给 sync.Once 之外增加同步负担。
func ProcessName() string {
	nameOnce.Do(func() {
		nameValue = resolveName()
	})
	return nameValue
}

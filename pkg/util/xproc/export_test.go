package xproc

import "sync"

// ResetProcessName 清空进程名缓存，仅测试可用。
// 修改 osExecutable 或 os.Args 的用例必须先重置，否则命中旧缓存。
func ResetProcessName() {
	nameOnce = sync.Once{}
	nameValue = ""
}

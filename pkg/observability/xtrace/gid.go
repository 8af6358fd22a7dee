package xtrace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// stackPool 复用 runtime.Stack 的小缓冲区。
// 只需要首行 "goroutine N [running]:"，64 字节足够容纳任何编号。
var stackPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 64)
		return &buf
	},
}

var goroutinePrefix = []byte("goroutine ")

// goroutineID 返回当前 goroutine 编号，作为行格式中的 threadId 字段。
// 解析失败返回 0：行里的编号缺失不值得让一次写入失败。
func goroutineID() int {
	bufp := stackPool.Get().(*[]byte)
	defer stackPool.Put(bufp)

	buf := *bufp
	n := runtime.Stack(buf, false)

	head := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	i := bytes.IndexByte(head, ' ')
	if i <= 0 {
		return 0
	}
	id, err := strconv.Atoi(string(head[:i]))
	if err != nil {
		return 0
	}
	return id
}

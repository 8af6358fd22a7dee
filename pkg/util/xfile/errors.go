package xfile

import "errors"

var (
	// ErrEmptyPath 表示必需的路径参数为空。
	ErrEmptyPath = errors.New("xfile: empty path")

	// ErrNullByte 表示路径中含空字节（\x00）。内核在 VFS 层会在空字节处
	// 截断路径，Go 侧与操作系统看到的将不是同一个文件。
	ErrNullByte = errors.New("xfile: null byte in path")

	// ErrDirectoryPath 表示路径指向目录而非文件（尾部分隔符或无文件名部分）。
	ErrDirectoryPath = errors.New("xfile: path is a directory")

	// ErrPathTraversal 表示路径含 ".." 独立路径段。
	ErrPathTraversal = errors.New("xfile: path traversal segment")
)

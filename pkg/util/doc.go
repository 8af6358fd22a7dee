// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 文件操作工具，追踪目标路径净化与父目录创建
//   - xproc: 进程信息查询，PID 和进程名称
//
// 设计原则：
//   - 提供常用的文件和路径操作封装
//   - 跨平台兼容
package util

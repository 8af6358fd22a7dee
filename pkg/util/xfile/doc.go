// Package xfile 提供追踪文件目标路径的格式校验与目录准备工具。
//
// 追踪目标路径来自操作员配置（环境变量、设置文件），本包在写入发生前
// 做两件事：
//
//   - SanitizePath: 规范化路径并拒绝明显的配置错误（空路径、空字节、
//     目录路径、".." 穿越段）
//   - EnsureParentDir: 按需创建目标文件的父目录，使
//     "logs/run.{pid}.log" 这类带子目录的模式在全新工作区可用
//
// 穿越检测按路径段精确匹配，只有 ".." 作为独立段才被拒绝，
// "app..2024.log" 这类合法文件名不受影响。
//
// 本包只做格式净化，不做目录沙箱，也不解析符号链接；追踪目标默认可信。
// 预定义错误支持 [errors.Is] 判断。
package xfile

// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xtrace: 测试运行器的内部追踪设施（级别、Writer、命名 Logger、环境自动初始化）
//   - xtail: 追踪文件读侧工具（重定向链还原、拼接输出、实时跟随）
//
// 设计原则：
//   - 写侧同步落盘，进程随时可被终止而不丢尾部
//   - 重定向哨兵行是写读两侧的共同契约
//   - 级别过滤在格式化之前，被抑制的调用零开销
package observability

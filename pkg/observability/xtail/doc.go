// Package xtail 提供追踪文件重定向链的读侧工具。
//
// 追踪 Writer 在运行中切换目标文件时写入一对哨兵行（字面量见
// xtrace.MarkerContinues 与 xtrace.MarkerContinuedFrom），本包按
// 同样的字面量把分散在多个文件中的追踪输出还原成有序链：
//
//   - [Prev]、[Next] 解析单个文件两端的哨兵
//   - [Chain] 从任意一环还原完整链
//   - [Dump] 把整条链串接输出
//   - [Follow] 实时跟随当前文件，重定向发生时透明跳转到新目标
//
// 哨兵中的相对路径按所在文件的目录解析，与 Writer 的写入视角一致。
//
// 设计决策: 链行走遇到重复路径时终止而不报错。重定向允许切回旧文件
// （旧文件按追加重开），此时链在物理上成环，截断到首次重复即是
// 最长的无歧义前缀。
package xtail

// Package xtrace 是测试运行器自身的内部追踪设施。
//
// 它与被测代码可能产生的任何日志严格分离：一个进程一份 [Writer]，
// 固定的行格式，固定的级别分类，没有结构化字段、没有多路输出、
// 没有轮转策略。运行器靠它回答"框架自己刚才做了什么"。
//
// # 核心对象
//
//   - [Level]: 有序级别 NotSet < Off < Error < Warning < Info < Debug，
//     LevelVerbose 是 LevelDebug 的别名。NotSet 表示"继承 Writer 默认级别"，
//     与显式静默的 Off 不同。
//   - [Writer]: 输出目标的唯一持有者。延迟建档（第一次真实写入才创建文件）、
//     单锁串行写入、运行中重定向（新旧文件用标记行链接）、写前自动初始化。
//   - [Logger]: 命名句柄。级别过滤在 Logger 侧完成，未指定级别的 Logger
//     在首次记录时继承 Writer 当时的默认级别并就此固定。
//
// # 行格式
//
// 每条记录一行，固定为：
//
//	HH:mm:ss.fff LEVEL [threadId] LoggerName: message
//
// 时间是本地时钟毫秒精度；threadId 是 goroutine 编号。重定向产生两行
// 哨兵："Log continues in file <新路径>"（旧文件末尾）与
// "Log continued from <旧路径>"（新文件首行）。
//
// # 环境变量
//
//   - XTRACE_LOG: 目标路径模式，{pid} 展开为进程号；未设置时用
//     "<进程名>_trace.{pid}.log"
//   - XTRACE_LEVEL: 级别名，大小写不敏感；未设置时自动初始化取 Debug，
//     无法识别的值是致命配置错误（[ErrUnknownLevel]）
//
// # 进程级默认实例
//
// [Default]、[SetDefault]、[ResetDefault] 与包级便利函数
// （[Initialize]、[GetLogger]、[WriteLine] 等）提供单例门面；
// 需要隔离的场景（测试）直接构造独立的 [Writer]。
//
// # 错误处理
//
// 打开或写入目标失败的 I/O 错误同步返回给触发写入的调用点，单次尝试、
// 不重试、不掩盖；级别拼错走 [ErrUnknownLevel]。写入前从不因为"还没
// 初始化"而失败：缺省配置会被自动应用（自动初始化）。
package xtrace

// Package xsettings 提供追踪设施的文件配置入口。
//
// 运行器嵌入追踪设施时往往已有自己的配置文件；本包把其中的追踪段
// （目标路径模式与默认级别）解析成 [Settings]，再经 [Settings.Apply]
// 施加到追踪 Writer。环境变量 XTRACE_LOG、XTRACE_LEVEL 默认最后
// 叠加，与纯环境变量部署保持同一优先级契约：环境赢过文件。
//
// 支持 JSON 与 YAML 两种格式，按扩展名识别。
package xsettings

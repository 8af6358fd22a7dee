// tracectl 是 xtrace 追踪日志的命令行查看工具。
//
// 用法:
//
//	tracectl <命令> [命令参数]
//
// 命令:
//
//	chain <文件>   打印重定向链上的全部文件
//	cat <文件>     按链序拼接输出链上全部内容
//	follow <文件>  实时跟随追踪输出（跨重定向）
//	env            显示自动初始化视角下的环境配置
//	help           显示帮助信息
//
// 重定向链说明:
//
//	xtrace.Writer 在运行中被重新 Initialize 到新文件时，会在旧文件末尾
//	写入 "Log continues in file <新文件>"，并在新文件首行写入
//	"Log continued from <旧文件>"。tracectl 依据这对哨兵行把一次运行
//	散落在多个文件中的输出还原成完整视图。
//
// 退出码:
//
//	0: 命令执行成功
//	1: 命令执行失败（文件缺失、I/O 错误、环境配置错误等）
//	2: 参数错误（缺少文件参数、未知 flag、未知命令等）
//
// 示例:
//
//	tracectl chain app_trace.1234.log        # 查看重定向链
//	tracectl cat app_trace.1234.log          # 输出一次运行的完整内容
//	tracectl cat --no-markers run.log        # 同上，不含哨兵行
//	tracectl follow app_trace.1234.log       # 实时跟随（Ctrl+C 退出）
//	XTRACE_LOG=run.{pid}.log tracectl env    # 预览自动初始化配置
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

// defaultPollInterval follow 命令的轮询兜底间隔。
const defaultPollInterval = 500 * time.Millisecond

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:           "tracectl",
		Usage:          "xtrace 追踪日志查看工具",
		Version:        fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Commands:       createCommands(),
		DefaultCommand: "help",
		Authors: []any{
			"TraceKit Team",
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射，确保与文档退出码契约一致。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			// ExitCoder 错误（如未知命令）的消息需在此输出，
			// 替代 HandleExitCoder 的默认 os.Exit 行为。
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
		Description: `tracectl 读取 xtrace 产出的追踪日志，理解其中的重定向哨兵行，
把被运行中重新 Initialize 切分到多个文件的输出还原成完整视图。

主要命令:
  chain <文件>        打印重定向链上的全部文件，每行一个
  cat <文件>          按链序拼接输出链上全部内容
    --no-markers      跳过重定向哨兵行
  follow <文件>       实时跟随输出，随重定向透明切换文件
    --no-markers      跳过重定向哨兵行
    --poll, -p        轮询兜底间隔 (默认: 500ms)
  env                 显示自动初始化视角下的目标文件与级别`,
	}
}

func run() int {
	app := createApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 设置信号处理
	setupSignalHandler(ctx, cancel)

	if err := app.Run(ctx, os.Args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		// CLI 框架产生的参数错误（如未知 flag、未知命令）也返回退出码 2，
		// 与文档契约"参数错误 → 退出码 2"保持一致。
		if isCLIUsageError(err) {
			// ExitErrHandler 或 flag 解析器已向 stderr 输出错误详情，此处仅设置退出码
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/tracekit/pkg/observability/xtail"
	"github.com/omeyang/tracekit/pkg/observability/xtrace"
)

// usageError 表示参数类错误，run() 统一映射为退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// isCLIUsageError 判断是否为 CLI 框架产生的参数类错误。
// ExitCoder 由框架构造（未知命令等），flag 解析错误则是
// 标准库 flag 包的裸错误，只能按消息识别。
func isCLIUsageError(err error) bool {
	if _, ok := err.(cli.ExitCoder); ok {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "flag provided but not defined") ||
		strings.Contains(msg, "invalid value")
}

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createChainCommand(),
		createCatCommand(),
		createFollowCommand(),
		createEnvCommand(),
	}
}

// createChainCommand 创建 chain 子命令。
func createChainCommand() *cli.Command {
	return &cli.Command{
		Name:      "chain",
		Aliases:   []string{"c"},
		Usage:     "打印重定向链上的全部文件，按写入先后排序",
		ArgsUsage: "<文件>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return &usageError{msg: "chain 命令需要指定一个追踪文件"}
			}
			return cmdChain(ctx, os.Stdout, cmd.Args().First())
		},
	}
}

// createCatCommand 创建 cat 子命令。
func createCatCommand() *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Aliases:   []string{"dump"},
		Usage:     "按链序拼接输出链上全部内容",
		ArgsUsage: "<文件>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-markers",
				Usage: "跳过重定向哨兵行",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return &usageError{msg: "cat 命令需要指定一个追踪文件"}
			}
			return cmdCat(ctx, os.Stdout, cmd.Args().First(), cmd.Bool("no-markers"))
		},
	}
}

// createFollowCommand 创建 follow 子命令。
func createFollowCommand() *cli.Command {
	return &cli.Command{
		Name:      "follow",
		Aliases:   []string{"f", "tail"},
		Usage:     "实时跟随追踪输出，随重定向透明切换文件（Ctrl+C 退出）",
		ArgsUsage: "<文件>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-markers",
				Usage: "跳过重定向哨兵行",
			},
			&cli.DurationFlag{
				Name:    "poll",
				Aliases: []string{"p"},
				Usage:   "轮询兜底间隔",
				Value:   defaultPollInterval,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return &usageError{msg: "follow 命令需要指定一个追踪文件"}
			}
			return cmdFollow(ctx, os.Stdout, cmd.Args().First(),
				cmd.Bool("no-markers"), cmd.Duration("poll"))
		},
	}
}

// createEnvCommand 创建 env 子命令。
func createEnvCommand() *cli.Command {
	return &cli.Command{
		Name:    "env",
		Aliases: []string{"e"},
		Usage:   "显示自动初始化视角下的目标文件与级别",
		Action: func(ctx context.Context, _ *cli.Command) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return cmdEnv(os.Stdout)
		},
	}
}

// cmdChain 解析并打印重定向链，每行一个文件路径。
func cmdChain(ctx context.Context, out io.Writer, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	chain, err := xtail.Chain(path)
	if err != nil {
		return err
	}
	for _, p := range chain {
		fmt.Fprintln(out, p)
	}
	return nil
}

// cmdCat 按链序拼接输出链上全部内容。
func cmdCat(ctx context.Context, out io.Writer, path string, withoutMarkers bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var opts []xtail.Option
	if withoutMarkers {
		opts = append(opts, xtail.WithoutMarkers())
	}
	return xtail.Dump(out, path, opts...)
}

// cmdFollow 实时跟随追踪输出。
// 设计决策: Ctrl+C 是无限期跟随的正常退出方式，
// context 取消按成功处理，不向用户报 "context canceled"。
func cmdFollow(ctx context.Context, out io.Writer, path string, withoutMarkers bool, poll time.Duration) error {
	opts := []xtail.Option{xtail.WithPollInterval(poll)}
	if withoutMarkers {
		opts = append(opts, xtail.WithoutMarkers())
	}

	err := xtail.Follow(ctx, path, func(line string) error {
		_, werr := fmt.Fprintln(out, line)
		return werr
	}, opts...)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// cmdEnv 显示自动初始化会采用的配置：目标文件（{pid} 已展开）与级别。
// 级别值无法识别时原样上抛配置错误，与自动初始化的行为一致。
func cmdEnv(out io.Writer) error {
	level, err := xtrace.LevelFromEnv()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "目标文件: %s\n", xtrace.LogPathFromEnv())
	fmt.Fprintf(out, "追踪级别: %s\n", level)
	return nil
}

// setupSignalHandler 设置信号处理。
// 设计决策: 第一次信号优雅取消（follow 随 context 退出），
// 第二次信号强制退出（退出码 130 = 128 + SIGINT）。
func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel() // 第一次信号: 优雅取消
		case <-ctx.Done():
			signal.Stop(sigCh) // 命令正常结束，回收订阅
			return
		}

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130) // 第二次信号: 强制退出
	}()
}

package xtail

import "time"

// defaultPollInterval Follow 的兜底轮询间隔
const defaultPollInterval = 500 * time.Millisecond

// Option 读取与跟随行为的可选项
type Option func(*options)

type options struct {
	withoutMarkers bool
	pollInterval   time.Duration
}

func defaultOptions() *options {
	return &options{
		pollInterval: defaultPollInterval,
	}
}

// WithoutMarkers 输出时跳过重定向哨兵行，只保留真实追踪内容。
func WithoutMarkers() Option {
	return func(o *options) {
		o.withoutMarkers = true
	}
}

// WithPollInterval 设置 Follow 的兜底轮询间隔。
// 文件系统事件不可靠时（网络盘、部分容器卷）由轮询保底。
// 非正值忽略，保持默认 500ms。
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

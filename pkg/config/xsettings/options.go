package xsettings

// Option 设置加载选项
type Option func(*options)

type options struct {
	skipEnv bool
}

func defaultOptions() *options {
	return &options{}
}

// WithoutEnv 跳过环境变量叠加，得到纯文件视图。
// 用于诊断"文件里到底写了什么"；运行时加载保持默认叠加。
func WithoutEnv() Option {
	return func(o *options) {
		o.skipEnv = true
	}
}

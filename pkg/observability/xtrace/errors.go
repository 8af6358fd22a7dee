package xtrace

import "errors"

var (
	// ErrUnknownLevel 追踪级别字符串无法识别。
	// 级别拼错几乎必然是操作员失误，自动初始化路径把它作为致命配置
	// 错误原样返回，不静默降级。
	ErrUnknownLevel = errors.New("xtrace: unknown trace level")
)

//go:build windows

package xtrace

// lineEnding 平台行终止符
const lineEnding = "\r\n"

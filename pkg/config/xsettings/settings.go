package xsettings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/omeyang/tracekit/pkg/observability/xtrace"
)

// envPrefix 参与叠加的环境变量前缀（XTRACE_LOG、XTRACE_LEVEL）
const envPrefix = "XTRACE_"

// Format 设置数据格式
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Settings 追踪设施的声明式配置视图。
// 字段语义与环境变量一致：Log 是可含 {pid} 占位符的目标路径模式，
// Level 是默认追踪级别，零值 NotSet 交由环境链解析（缺省 Debug）。
type Settings struct {
	Log   string       `koanf:"log"`
	Level xtrace.Level `koanf:"level"`
}

// rawSettings koanf 反序列化的中间形态。
// 级别以字符串接收、显式经 ParseLevel 解析，错误链保留 ErrUnknownLevel。
type rawSettings struct {
	Log   string `koanf:"log"`
	Level string `koanf:"level"`
}

// Load 从文件加载设置，按扩展名识别格式（.json/.yaml/.yml）。
func Load(path string, opts ...Option) (*Settings, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return fromData(data, format, opts)
}

// FromBytes 从字节数据加载设置，格式需显式指定。
// 空数据产出零值 Settings（路径与级别都交由环境链决定）。
func FromBytes(data []byte, format Format, opts ...Option) (*Settings, error) {
	if !isValidFormat(format) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return fromData(data, format, opts)
}

func fromData(data []byte, format Format, opts []Option) (*Settings, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	k := koanf.New(".")
	if len(data) > 0 {
		if err := loadData(k, data, format); err != nil {
			return nil, err
		}
	}
	if !o.skipEnv {
		if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}
	}

	var raw rawSettings
	if err := k.UnmarshalWithConf("", &raw, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	level := xtrace.LevelNotSet
	if raw.Level != "" {
		parsed, err := xtrace.ParseLevel(raw.Level)
		if err != nil {
			return nil, fmt.Errorf("xsettings: parse level: %w", err)
		}
		level = parsed
	}
	return &Settings{Log: raw.Log, Level: level}, nil
}

// Apply 把设置施加到 Writer。
// Log 非空时经 {pid} 展开后作为目标路径；为空时只设级别，路径走
// 环境与缺省链。
func (s *Settings) Apply(w *xtrace.Writer) error {
	if w == nil {
		return fmt.Errorf("xsettings: nil writer")
	}
	if s.Log == "" {
		return w.InitializeLevel(s.Level)
	}
	return w.Initialize(xtrace.ExpandLogPattern(s.Log), s.Level)
}

// =============================================================================
// 内部辅助函数
// =============================================================================

// envTransform 把 XTRACE_LOG / XTRACE_LEVEL 映射为设置键。
// 置空的变量视同未设置，不参与叠加。
func envTransform(name string) string {
	if os.Getenv(name) == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(name, envPrefix))
}

// detectFormat 根据文件扩展名检测设置格式。
func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

// isValidFormat 检查格式是否有效。
func isValidFormat(format Format) bool {
	switch format {
	case FormatYAML, FormatJSON:
		return true
	default:
		return false
	}
}

// loadData 加载数据到 koanf 实例。
func loadData(k *koanf.Koanf, data []byte, format Format) error {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return nil
}

package config

import (
	"fmt"

	"github.com/dep2p/go-multiformats/pkg/lib/log"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug、info、warn、error
	// 默认值: "info"
	Level string `json:"level"`

	// Format 输出格式："text" 或 "json"
	Format string `json:"format"`

	// File 日志文件路径，为空时写标准错误
	File string `json:"file,omitempty"`

	// FxEvents 是否输出 fx 依赖注入事件
	FxEvents bool `json:"fx_events"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: log.FormatText,
	}
}

// Validate 校验日志配置
func (c LogConfig) Validate() error {
	if _, err := log.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	switch c.Format {
	case log.FormatText, log.FormatJSON:
	default:
		return fmt.Errorf("log: unknown format %q", c.Format)
	}
	return nil
}

// Package log 提供 multiformats 统一日志接口
//
// 基于 Go 标准库 log/slog 封装。各注册表通过 Logger("multicodec") 之类的
// 组件 logger 输出调试信息，输出目标和级别由 Configure 统一设置。
package log

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// 日志级别常量
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// 输出格式
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel 解析级别名称（debug/info/warn/error，大小写不敏感）
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New 创建文本格式的 logger
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSON 创建 JSON 格式的 logger
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Configure 设置默认 logger 的输出目标、级别和格式
//
// w 为 nil 时输出到 os.Stderr。format 为空时使用文本格式。
func Configure(w io.Writer, level slog.Level, format string) error {
	if w == nil {
		w = os.Stderr
	}
	switch format {
	case "", FormatText:
		slog.SetDefault(New(w, level))
	case FormatJSON:
		slog.SetDefault(NewJSON(w, level))
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}

// SetLevel 只修改默认 logger 的级别（输出到 os.Stderr）
func SetLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level))
}

// ============================================================================
//                              LazyLogger
// ============================================================================

// LazyLogger 懒加载 logger
//
// 每次调用时从 slog.Default() 取 handler，
// 因此 Configure 之后已创建的组件 logger 也会使用新的输出。
//
//	var logger = log.Logger("multihash")
//	logger.Debug("registered", "name", "sha2-256")
type LazyLogger struct {
	component string
}

// Logger 返回带组件名的 LazyLogger
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

func (l *LazyLogger) base() *slog.Logger {
	return slog.Default().With("component", l.component)
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) {
	l.base().Debug(msg, args...)
}

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) {
	l.base().Info(msg, args...)
}

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) {
	l.base().Warn(msg, args...)
}

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) {
	l.base().Error(msg, args...)
}

// InfoContext 带 context 的 Info 日志
func (l *LazyLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.base().InfoContext(ctx, msg, args...)
}

// With 添加额外的属性
func (l *LazyLogger) With(args ...any) *slog.Logger {
	return l.base().With(args...)
}

// Component 返回组件名
func (l *LazyLogger) Component() string {
	return l.component
}

// ============================================================================
//                              工具函数
// ============================================================================

// ShortHex 返回 b 的十六进制表示，超过 maxBytes 时截断并加 "…"
//
// 用于在日志中打印摘要、地址等较长的二进制值。
func ShortHex(b []byte, maxBytes int) string {
	if maxBytes < 0 || len(b) <= maxBytes {
		return hex.EncodeToString(b)
	}
	return hex.EncodeToString(b[:maxBytes]) + "…"
}

package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	log   *zap.Logger
	sugar *zap.SugaredLogger
)

// Options 日志配置
type Options struct {
	Level       string // debug, info, warn, error
	Format      string // console 或 json
	Development bool
}

// ParseLevel 解析日志级别，未知取值按 info 处理
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init 初始化日志
func Init(opts Options) error {
	encoding := opts.Format
	encodeLevel := zapcore.CapitalColorLevelEncoder
	switch encoding {
	case "", "console":
		encoding = "console"
	case "json":
		encodeLevel = zapcore.LowercaseLevelEncoder
	default:
		return fmt.Errorf("unknown log format %q", opts.Format)
	}

	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(ParseLevel(opts.Level)),
		Development: opts.Development,
		Encoding:    encoding,
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			CallerKey:      "C",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "M",
			StacktraceKey:  "S",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    encodeLevel,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	Replace(l)
	return nil
}

// Replace 替换全局 logger，测试中用于注入 observer
func Replace(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
	sugar = l.Sugar()
}

// L 获取 logger
func L() *zap.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l == nil {
		// 如果未初始化，使用默认配置
		_ = Init(Options{Level: "info"})
		mu.RLock()
		l = log
		mu.RUnlock()
	}
	return l
}

// S 获取 sugared logger
func S() *zap.SugaredLogger {
	L()
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Sync 同步日志
func Sync() error {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l != nil {
		return l.Sync()
	}
	return nil
}

// With 创建带字段的 logger
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Named 创建带组件名的 logger
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Debug 调试日志
func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

// Info 信息日志
func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

// Warn 警告日志
func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

// Error 错误日志
func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

// Fatal 致命错误日志
func Fatal(msg string, fields ...zap.Field) {
	L().Fatal(msg, fields...)
	os.Exit(1)
}

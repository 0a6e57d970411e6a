// Package log 提供诊断后端的日志系统封装
//
// 标准输出保留给诊断/修复的 JSON 文档, 所有日志一律写到
// 标准错误或文件, 避免污染桌面端要解析的输出流。
package log

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig 日志配置
type LogConfig struct {
	Level      string // 日志级别: debug, info, warn, error
	Output     string // 输出方式: console, file, both
	FilePath   string // 日志文件路径
	MaxSizeMB  int    // 单文件最大大小(MB)
	MaxBackups int    // 最大保留文件数
}

// Logger 封装 zap.Logger 提供统一日志接口
type Logger struct {
	zap   *zap.Logger
	level zap.AtomicLevel
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// NewLogger 根据配置创建 Logger
func NewLogger(cfg LogConfig) (*Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		// 无法识别的级别回落到 info
		level.SetLevel(zapcore.InfoLevel)
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// 终端用易读编码写 stderr, 文件用 JSON 编码并轮转
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(os.Stderr),
		level,
	)
	var core zapcore.Core
	switch cfg.Output {
	case "file":
		core = zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), fileWriter(cfg), level)
	case "both":
		core = zapcore.NewTee(
			consoleCore,
			zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), fileWriter(cfg), level),
		)
	default:
		core = consoleCore
	}

	return &Logger{
		zap:   zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)),
		level: level,
	}, nil
}

// fileWriter 创建带轮转的文件输出器
func fileWriter(cfg LogConfig) zapcore.WriteSyncer {
	if dir := filepath.Dir(cfg.FilePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			// 目录创建失败不致命, lumberjack 写入时会再尝试
			_, _ = os.Stderr.WriteString("Warning: failed to create log directory: " + err.Error() + "\n")
		}
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	})
}

// SetLevel 动态调整日志级别
func (l *Logger) SetLevel(level string) error {
	return l.level.UnmarshalText([]byte(level))
}

// GetLevel 获取当前日志级别
func (l *Logger) GetLevel() string {
	return l.level.Level().String()
}

// WithModule 创建带模块名的子 Logger
func (l *Logger) WithModule(module string) *Logger {
	return &Logger{
		zap:   l.zap.With(zap.String("module", module)),
		level: l.level,
	}
}

// Debug 输出 debug 级别日志
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, fields...)
}

// Info 输出 info 级别日志
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, fields...)
}

// Warn 输出 warn 级别日志
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, fields...)
}

// Error 输出 error 级别日志
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, fields...)
}

// Fatal 输出 fatal 级别日志并退出
func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.zap.Fatal(msg, fields...)
}

// Sync 刷新日志缓冲区
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// Init 初始化全局 Logger
func Init(cfg LogConfig) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
	return nil
}

// Global 获取全局 Logger
func Global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	if globalLogger == nil {
		logger, _ := NewLogger(LogConfig{
			Level:  "info",
			Output: "console",
		})
		return logger
	}
	return globalLogger
}

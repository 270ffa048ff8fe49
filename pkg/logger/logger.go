package logger

import (
	"classhub_backend/internal/config"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log *zap.Logger

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// InitLogger 文件走 JSON（lumberjack 轮转），控制台走可读格式，
// 日志级别跟随 server.mode
func InitLogger(cfg *config.Config) {
	level := zap.InfoLevel
	if cfg.Server.Mode == "debug" {
		level = zap.DebugLevel
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   "logs/classhub.log",
			MaxSize:    50,
			MaxBackups: 10,
			MaxAge:     14,
			Compress:   true,
		}),
		level,
	)
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(os.Stdout),
		level,
	)

	Log = zap.New(
		zapcore.NewTee(fileCore, consoleCore),
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)
}

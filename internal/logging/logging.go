package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a console logger on stdout. If file is set, the same
// entries also go to a rolling log file.
func New(level, file string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(encCfg)

	sink := zapcore.AddSync(os.Stdout)
	if file != "" {
		// 10MB per file, 3 backups, 7 days
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		}
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(lj))
	}

	core := zapcore.NewCore(encoder, sink, lvl)
	return zap.New(core, zap.AddCaller()), nil
}

// FileOnly is for full-screen front ends where stdout belongs to the UI.
// An empty file discards everything.
func FileOnly(level, file string) (*zap.Logger, error) {
	if file == "" {
		return zap.NewNop(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	lj := &lumberjack.Logger{Filename: file, MaxSize: 10, MaxBackups: 3, MaxAge: 7}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(lj), lvl)), nil
}

package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the global logger.
type Options struct {
	Level      string
	FilePath   string // empty disables the file sink
	MaxSize    int    // megabytes before rotation
	MaxAge     int    // days to keep rotated files
	MaxBackups int
	Compress   bool
}

// Setup builds a console logger, tees it into a rotating file when
// FilePath is set, and installs it as the zap global. The returned func
// flushes buffered entries, restores the previous global and closes the
// log file.
func Setup(opts Options) (func(), error) {
	level, err := zapcore.ParseLevel(levelOrDefault(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var sink *lumberjack.Logger
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level),
	}
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		sink = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSize,
			MaxAge:     opts.MaxAge,
			MaxBackups: opts.MaxBackups,
			Compress:   opts.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(sink), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	restore := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		restore()
		if sink != nil {
			_ = sink.Close()
		}
	}, nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

package logger

import (
	"fmt"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultLogMaxAge is how long rotated log files are kept.
	DefaultLogMaxAge = 7 * 24 * time.Hour
	// DefaultLogRotationTime is how often a new log file is started.
	DefaultLogRotationTime = 24 * time.Hour
)

// NewWithFile creates a logger that writes the console format to stdout and
// a plain (uncolored) copy to a time-rotated file. The pattern follows
// strftime, e.g. "sos-server-%Y-%m-%d.log".
func NewWithFile(level zapcore.LevelEnabler, pattern string, options ...zap.Option) (*zap.SugaredLogger, error) {
	if level == nil {
		level = defaultLevel
	}

	writer, err := rotatelogs.New(pattern,
		rotatelogs.WithMaxAge(DefaultLogMaxAge),
		rotatelogs.WithRotationTime(DefaultLogRotationTime))
	if err != nil {
		return nil, fmt.Errorf("open rotating log file: %w", err)
	}

	//nolint:exhaustruct // I'm okay with default encoder configuration values.
	fileEncoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "message",
		LevelKey:         "level",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: ", ",
	})

	fileCore := zapcore.NewCore(fileEncoder, zapcore.AddSync(writer), level)

	tee := zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	})

	return New(level, append([]zap.Option{tee}, options...)...), nil
}

// Package logging builds the process logger.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level picks the minimum level from the --verbose and --debug flags.
func Level(verbose, debug bool) zapcore.Level {
	switch {
	case debug:
		return zapcore.DebugLevel
	case verbose:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// SetupLogger returns a console logger writing to w and a cleanup function
// that flushes it.
func SetupLogger(w io.Writer, verbose, debug bool) (*zap.Logger, func()) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(Level(verbose, debug)),
	)

	var opts []zap.Option
	if debug {
		opts = append(opts, zap.AddCaller())
	}
	logger := zap.New(core, opts...).Named("pq2csv")

	return logger, func() {
		_ = logger.Sync()
	}
}

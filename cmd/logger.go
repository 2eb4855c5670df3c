package cmd

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the console logger used for diagnostics on stderr.
// Findings themselves go through the report writers, not the logger.
func newLogger(w io.Writer, debug, silent, noColor bool) *zap.Logger {
	level := zapcore.InfoLevel
	switch {
	case debug:
		level = zapcore.DebugLevel
	case silent:
		level = zapcore.WarnLevel
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if noColor {
		enc.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core)
}

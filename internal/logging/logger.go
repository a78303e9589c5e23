// Package logging builds the zap logger used by the hook.
// Output always goes to stderr so it never mixes with the hook's stdout.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel names the environment variable that overrides the log level
const EnvLevel = "ISSUE_PREFIX_LOG_LEVEL"

// New returns a console logger writing to w. verbose forces debug level;
// otherwise EnvLevel is consulted and warn is the default.
func New(w io.Writer, verbose bool) *zap.Logger {
	level := ParseLevel(os.Getenv(EnvLevel))
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(ConsoleEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core).Named("issue-prefix")
}

// ConsoleEncoderConfig is a compact console layout without timestamps or callers
func ConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// ParseLevel maps a level name to a zap level, defaulting to warn
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

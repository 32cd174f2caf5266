// Useful routines used by the commands.
package common

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel converts a level name to a zap level, INFO if unknown.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zap.DebugLevel
	case "WARN":
		return zap.WarnLevel
	case "ERROR":
		return zap.ErrorLevel
	case "FATAL":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

// SetupLogger installs a development console logger writing to stderr as the
// global zap logger. Stdout is left to the program output.
func SetupLogger(level string) (*zap.Logger, *zap.SugaredLogger) {
	return setupLogger(level, zapcore.Lock(os.Stderr))
}

func setupLogger(level string, ws zapcore.WriteSyncer) (*zap.Logger, *zap.SugaredLogger) {
	al := zap.NewAtomicLevelAt(ParseLevel(level))
	ec := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), ws, al)
	logger := zap.New(core)
	zap.ReplaceGlobals(logger)
	return logger, logger.Sugar()
}

// TimeTrack logs the time elapsed since start, use it with defer.
func TimeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	zap.S().Debugf("%s took %s", name, elapsed)
}

package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the diagnostic logger.
// --debug logs at debug level to stderr in console form; a log file gets
// JSON lines at info level; otherwise warnings and failures go to stderr.
func NewLogger(debug bool, logFile string) (*zap.Logger, error) {
	switch {
	case debug:
		zc := zap.NewDevelopmentConfig()
		zc.OutputPaths = []string{"stderr"}
		zc.ErrorOutputPaths = []string{"stderr"}
		zc.DisableStacktrace = true
		return zc.Build()
	case logFile != "":
		zc := zap.NewProductionConfig()
		zc.OutputPaths = []string{logFile}
		zc.ErrorOutputPaths = []string{"stderr"}
		zc.EncoderConfig.TimeKey = "time"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return zc.Build()
	default:
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		zc.Encoding = "console"
		zc.OutputPaths = []string{"stderr"}
		zc.ErrorOutputPaths = []string{"stderr"}
		zc.EncoderConfig.TimeKey = ""
		zc.EncoderConfig.CallerKey = ""
		zc.DisableStacktrace = true
		zc.Sampling = nil
		return zc.Build()
	}
}

package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger from LOG_LEVEL (debug|info|warn|error),
// LOG_ENCODING (json|console) and LOG_OUTPUT (stdout|stderr).
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()

	cfg.Encoding = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_ENCODING")))
	if cfg.Encoding != "console" {
		cfg.Encoding = "json"
	}

	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.Development = true
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cfg.OutputPaths = []string{"stdout"}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_OUTPUT")), "stderr") {
		cfg.OutputPaths = []string{"stderr"}
	}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Setup initializes the process-wide zap logger and returns a flush
// function. Callers use zap.S()/zap.L() after this.
func Setup(debug bool) (*zap.SugaredLogger, func()) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	zap.ReplaceGlobals(logger)

	return logger.Sugar(), func() { _ = logger.Sync() }
}

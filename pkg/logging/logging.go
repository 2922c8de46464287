package logging

import (
	"go.uber.org/zap"
)

// Logger is the process-wide sugared logger used by the CLI.
var Logger = zap.NewNop().Sugar()

// InitLogger builds the console logger. Debug mode logs everything with
// development formatting; otherwise only warnings and errors are shown.
func InitLogger(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Logger = logger.Sugar()
}

// Base returns the structured logger behind Logger.
func Base() *zap.Logger {
	return Logger.Desugar()
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Logger.Sync()
}

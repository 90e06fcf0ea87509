package logx

import (
	"os"

	"go.uber.org/zap"
)

// Debug returns a logger for CLI diagnostics. It is a no-op unless the
// GYST_DEBUG environment variable is set to a non-empty value.
func Debug() *zap.Logger {
	if os.Getenv("GYST_DEBUG") == "" {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// Server returns the production logger used by the relay server.
func Server() (*zap.Logger, error) {
	return zap.NewProduction()
}

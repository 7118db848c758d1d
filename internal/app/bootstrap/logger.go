// internal/app/bootstrap/logger.go
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the process logger: JSON in prod, console otherwise.
func NewLogger(env, level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var zc zap.Config
	if env == "prod" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = lvl

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.With(zap.String("app", "taskhub"), zap.String("env", env)), nil
}

// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Shutdown stops the HTTP server, letting in-flight requests finish within
// ctx. Every accepted write has been persisted by the time its request
// returns, so the collections need no flushing.
func Shutdown(ctx context.Context, srv *http.Server, deps DBDeps, logger *zap.Logger) error {
	logger.Info("shutting down http server")
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
		return err
	}
	if deps.Registry != nil {
		for _, h := range deps.Registry.Handles() {
			logger.Info("collection closed", zap.String("path", h.Path()), zap.Uint64("version", h.Version()))
		}
	}
	return nil
}

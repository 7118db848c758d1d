// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	boardsfeature "github.com/dalemusser/taskhub/internal/app/features/boards"
	healthfeature "github.com/dalemusser/taskhub/internal/app/features/health"
	"github.com/dalemusser/taskhub/internal/app/features/shared"
	teamsfeature "github.com/dalemusser/taskhub/internal/app/features/teams"
	usersfeature "github.com/dalemusser/taskhub/internal/app/features/users"
	"github.com/dalemusser/taskhub/internal/app/system/auditlog"
	"github.com/dalemusser/taskhub/internal/app/system/metrics"
	"github.com/dalemusser/taskhub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Services holds the optional process-wide components the router uses.
// Nil fields are skipped.
type Services struct {
	Metrics *metrics.Metrics
	Limiter *ratelimit.Limiter
}

// BuildHandler constructs the root HTTP handler.
//
// Resource routes live under /users, /teams and /boards. The RPC-style
// aliases share the handlers and are mounted under /api. Without
// svc.Metrics no request metrics are kept and /metrics is not served.
func BuildHandler(cfg AppConfig, deps DBDeps, svc Services, logger *zap.Logger) (http.Handler, error) {
	audit := auditlog.New(logger.Named("audit"), auditlog.Config{Mode: cfg.AuditLog})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger.Named("http")))
	r.Use(middleware.Recoverer)
	if svc.Metrics != nil {
		r.Use(svc.Metrics.Middleware)
	}
	if svc.Limiter != nil {
		r.Use(svc.Limiter.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.WriteJSON(w, http.StatusNotFound, shared.ErrorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.WriteJSON(w, http.StatusMethodNotAllowed, shared.ErrorResponse{Error: "method not allowed"})
	})

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Registry, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	if svc.Metrics != nil {
		r.Handle("/metrics", svc.Metrics.Handler())
	}

	usersHandler := usersfeature.NewHandler(deps.Users, audit, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	teamsHandler := teamsfeature.NewHandler(deps.Teams, audit, logger)
	r.Mount("/teams", teamsfeature.Routes(teamsHandler))

	boardsHandler := boardsfeature.NewHandler(deps.Boards, audit, logger)
	r.Mount("/boards", boardsfeature.Routes(boardsHandler))

	r.Route("/api", func(r chi.Router) {
		usersfeature.APIRoutes(r, usersHandler)
		teamsfeature.APIRoutes(r, teamsHandler)
		boardsfeature.APIRoutes(r, boardsHandler)
	})

	return r, nil
}

// requestLogger logs one line per request at Debug, or Warn for 5xx.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			}
			if status >= http.StatusInternalServerError {
				logger.Warn("request failed", fields...)
				return
			}
			logger.Debug("request", fields...)
		})
	}
}

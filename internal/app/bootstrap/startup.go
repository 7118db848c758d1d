// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after the collections are open and
// before the HTTP handler is built.
func Startup(ctx context.Context, cfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Health:   cfg.HealthTimeout,
		Lookup:   cfg.LookupTimeout,
		Mutation: cfg.MutationTimeout,
	})

	counts, err := CollectionCounts(ctx, deps)
	if err != nil {
		return err
	}
	logger.Info("collections loaded",
		zap.String("users_file", deps.Users.Path()),
		zap.String("teams_file", deps.Teams.Path()),
		zap.String("boards_file", deps.Boards.Path()),
		zap.Int("users", counts["users"]),
		zap.Int("teams", counts["teams"]),
		zap.Int("boards", counts["boards"]),
		zap.Int("tasks", counts["tasks"]),
	)
	return nil
}

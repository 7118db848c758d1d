// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	boardstore "github.com/dalemusser/taskhub/internal/app/store/boards"
	"github.com/dalemusser/taskhub/internal/app/store/docstore"
	teamstore "github.com/dalemusser/taskhub/internal/app/store/teams"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ConnectDB opens the three collections on fsys, creating missing files.
// Teams open first because the user registry answers team lookups through
// them.
func ConnectDB(cfg AppConfig, fsys afero.Fs, logger *zap.Logger, opts ...docstore.Option) (DBDeps, error) {
	reg := docstore.NewRegistry(fsys, logger.Named("docstore"), opts...)

	teams, err := teamstore.New(reg, cfg.TeamsFile, logger.Named("teams"))
	if err != nil {
		logger.Error("opening teams collection failed", zap.String("path", cfg.TeamsFile), zap.Error(err))
		return DBDeps{}, err
	}
	users, err := userstore.New(reg, cfg.UsersFile, teams, logger.Named("users"))
	if err != nil {
		logger.Error("opening users collection failed", zap.String("path", cfg.UsersFile), zap.Error(err))
		return DBDeps{}, err
	}
	boards, err := boardstore.New(reg, cfg.BoardsFile, logger.Named("boards"))
	if err != nil {
		logger.Error("opening boards collection failed", zap.String("path", cfg.BoardsFile), zap.Error(err))
		return DBDeps{}, err
	}

	return DBDeps{Registry: reg, Users: users, Teams: teams, Boards: boards}, nil
}

// CollectionCounts returns the number of records in each collection, keyed
// by collection name.
func CollectionCounts(ctx context.Context, deps DBDeps) (map[string]int, error) {
	users, err := deps.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	teams, err := deps.Teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	boards, err := deps.Boards.ListBoards(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	tasks := 0
	for _, b := range boards {
		tasks += len(b.Tasks)
	}
	return map[string]int{
		"users":  len(users),
		"teams":  len(teams),
		"boards": len(boards),
		"tasks":  tasks,
	}, nil
}

// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	boardstore "github.com/dalemusser/taskhub/internal/app/store/boards"
	"github.com/dalemusser/taskhub/internal/app/store/docstore"
	teamstore "github.com/dalemusser/taskhub/internal/app/store/teams"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
)

// DBDeps holds the open collections.
type DBDeps struct {
	Registry *docstore.Registry
	Users    *userstore.Store
	Teams    *teamstore.Store
	Boards   *boardstore.Store
}

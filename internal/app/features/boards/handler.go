// internal/app/features/boards/handler.go
package boards

import (
	boardstore "github.com/dalemusser/taskhub/internal/app/store/boards"
	"github.com/dalemusser/taskhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the board and task endpoints.
type Handler struct {
	Boards *boardstore.Store
	Audit  *auditlog.Logger
	Log    *zap.Logger
}

// NewHandler constructs a boards Handler.
func NewHandler(boards *boardstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Boards: boards, Audit: audit, Log: logger}
}

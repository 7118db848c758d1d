// internal/app/features/teams/handler.go
package teams

import (
	teamstore "github.com/dalemusser/taskhub/internal/app/store/teams"
	"github.com/dalemusser/taskhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the team endpoints, membership included.
type Handler struct {
	Teams *teamstore.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// NewHandler constructs a teams Handler.
func NewHandler(teams *teamstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Teams: teams, Audit: audit, Log: logger}
}

// internal/app/features/users/handler.go
package users

import (
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the user endpoints.
type Handler struct {
	Users *userstore.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// NewHandler constructs a users Handler.
func NewHandler(users *userstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Audit: audit, Log: logger}
}

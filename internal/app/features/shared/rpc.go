// internal/app/features/shared/rpc.go
package shared

import (
	"net/http"

	"go.uber.org/zap"
)

// The /api/... endpoints answer in an envelope:
//
//	{"status": "success", "<key>": ...}
//	{"status": "error", "message": "..."}

// RPCRequest is the body of the /api/... endpoints that address one entity.
type RPCRequest struct {
	ID    string   `json:"id"`
	Users []string `json:"users"`
}

// WriteRPC writes a success envelope holding value under key.
func WriteRPC(w http.ResponseWriter, key string, value any) {
	WriteJSON(w, http.StatusOK, map[string]any{"status": "success", key: value})
}

// WriteRPCError writes an error envelope with the status from Status.
func WriteRPCError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		msg = "internal error"
	}
	WriteJSON(w, status, map[string]any{"status": "error", "message": msg})
}

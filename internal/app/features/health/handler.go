package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/store/docstore"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/app/system/watch"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Registry *docstore.Registry
	Log      *zap.Logger
}

// NewHandler constructs a health Handler over the open collections.
func NewHandler(reg *docstore.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		Registry: reg,
		Log:      logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status      string             `json:"status"`
	Collections []collectionStatus `json:"collections"`
	Message     string             `json:"message,omitempty"`
}

type collectionStatus struct {
	Path     string `json:"path"`
	Version  uint64 `json:"version"`
	Readable bool   `json:"readable"`
	InSync   bool   `json:"in_sync"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "collections":[{"path":"/srv/db/users.json","version":3,"readable":true,"in_sync":true}] }
//
// When a data file cannot be read: 503 and status "error". A file that was
// edited outside the process is reported with in_sync false but does not
// fail the check.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Health())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{Status: "ok", Collections: []collectionStatus{}}
	for _, t := range h.Registry.Handles() {
		if ctx.Err() != nil {
			resp.Status = "error"
			resp.Message = "Health check timed out"
			break
		}
		cs := collectionStatus{Path: t.Path(), Version: t.Version(), Readable: true}
		changed, err := watch.Check(h.Registry, t.Path())
		if err != nil {
			h.Log.Error("health-check: data file unreadable", zap.String("path", t.Path()), zap.Error(err))
			cs.Readable = false
			cs.Error = err.Error()
			resp.Status = "error"
			resp.Message = "Data file unavailable"
		}
		cs.InSync = err == nil && !changed
		resp.Collections = append(resp.Collections, cs)
	}

	if resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

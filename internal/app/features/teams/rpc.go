// internal/app/features/teams/rpc.go
package teams

import (
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/features/shared"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
)

// HandleAddUsersRPC handles POST /api/team/add-users with body
// {"id": "<team>", "users": ["<user>", ...]}.
func (h *Handler) HandleAddUsersRPC(w http.ResponseWriter, r *http.Request) {
	var req shared.RPCRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteRPCError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "add team users")
	defer cancel()

	_, err := h.Teams.AddUsers(ctx, req.ID, req.Users)
	h.Audit.TeamMembersAdded(r, req.ID, req.Users, err)
	if err != nil {
		shared.WriteRPCError(w, h.Log, err)
		return
	}
	shared.WriteRPC(w, "message", "Users added to team.")
}

// HandleRemoveUsersRPC handles POST /api/team/remove-users.
func (h *Handler) HandleRemoveUsersRPC(w http.ResponseWriter, r *http.Request) {
	var req shared.RPCRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteRPCError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "remove team users")
	defer cancel()

	_, err := h.Teams.RemoveUsers(ctx, req.ID, req.Users)
	h.Audit.TeamMembersRemoved(r, req.ID, req.Users, err)
	if err != nil {
		shared.WriteRPCError(w, h.Log, err)
		return
	}
	shared.WriteRPC(w, "message", "Users removed from team.")
}

// HandleListUsersRPC handles POST /api/team/list-users with body {"id": "<team>"}.
func (h *Handler) HandleListUsersRPC(w http.ResponseWriter, r *http.Request) {
	var req shared.RPCRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteRPCError(w, h.Log, err)
		return
	}
	ids, err := h.Teams.ListUsers(r.Context(), req.ID)
	if err != nil {
		shared.WriteRPCError(w, h.Log, err)
		return
	}
	shared.WriteRPC(w, "users", ids)
}

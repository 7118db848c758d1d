// internal/app/features/users/users.go
package users

import (
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/features/shared"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleCreate handles POST /users.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in userstore.NewUser
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "create user")
	defer cancel()

	u, err := h.Users.Create(ctx, in)
	h.Audit.UserCreated(r, u.ID, in.Name, err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, shared.IDResponse{ID: u.ID})
}

// ServeList handles GET /users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Users.List(r.Context())
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, list)
}

// ServeUser handles GET /users/{id}.
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, u)
}

// HandleUpdate handles PATCH and PUT /users/{id}. Only display_name can
// change; a body carrying "name" is rejected.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var upd userstore.UserUpdate
	if err := shared.DecodeJSON(r, &upd); err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "update user")
	defer cancel()

	u, err := h.Users.Update(ctx, id, upd)
	h.Audit.UserUpdated(r, id, changedFields(upd), err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, u)
}

// ServeTeams handles GET /users/{id}/teams.
func (h *Handler) ServeTeams(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Lookup(), h.Log, "user teams")
	defer cancel()

	ids, err := h.Users.GetTeams(ctx, chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ids)
}

// HandleGetTeams handles POST /api/user/get-teams with body {"id": "..."}.
func (h *Handler) HandleGetTeams(w http.ResponseWriter, r *http.Request) {
	var req shared.RPCRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteRPCError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Lookup(), h.Log, "user teams")
	defer cancel()

	ids, err := h.Users.GetTeams(ctx, req.ID)
	if err != nil {
		shared.WriteRPCError(w, h.Log, err)
		return
	}
	shared.WriteRPC(w, "teams", ids)
}

func changedFields(upd userstore.UserUpdate) []string {
	var out []string
	if upd.Name != nil {
		out = append(out, "name")
	}
	if upd.DisplayName != nil {
		out = append(out, "display_name")
	}
	return out
}

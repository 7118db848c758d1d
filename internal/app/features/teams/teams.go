// internal/app/features/teams/teams.go
package teams

import (
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/features/shared"
	teamstore "github.com/dalemusser/taskhub/internal/app/store/teams"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleCreate handles POST /teams.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in teamstore.NewTeam
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "create team")
	defer cancel()

	t, err := h.Teams.Create(ctx, in)
	h.Audit.TeamCreated(r, t.ID, in.Name, err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, shared.IDResponse{ID: t.ID})
}

// ServeList handles GET /teams.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Teams.List(r.Context())
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, list)
}

// ServeTeam handles GET /teams/{id}.
func (h *Handler) ServeTeam(w http.ResponseWriter, r *http.Request) {
	t, err := h.Teams.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, t)
}

// HandleUpdate handles PATCH and PUT /teams/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var upd teamstore.TeamUpdate
	if err := shared.DecodeJSON(r, &upd); err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "update team")
	defer cancel()

	t, err := h.Teams.Update(ctx, id, upd)
	h.Audit.TeamUpdated(r, id, changedFields(upd), err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, t)
}

// membersRequest is the body of POST and DELETE /teams/{id}/users.
type membersRequest struct {
	UserIDs []string `json:"user_ids"`
}

// ServeMembers handles GET /teams/{id}/users.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Teams.ListUsers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ids)
}

// HandleAddMembers handles POST /teams/{id}/users.
func (h *Handler) HandleAddMembers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req membersRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "add team users")
	defer cancel()

	t, err := h.Teams.AddUsers(ctx, id, req.UserIDs)
	h.Audit.TeamMembersAdded(r, id, req.UserIDs, err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, t.Users)
}

// HandleRemoveMembers handles DELETE /teams/{id}/users.
func (h *Handler) HandleRemoveMembers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req membersRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "remove team users")
	defer cancel()

	t, err := h.Teams.RemoveUsers(ctx, id, req.UserIDs)
	h.Audit.TeamMembersRemoved(r, id, req.UserIDs, err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, t.Users)
}

func changedFields(upd teamstore.TeamUpdate) []string {
	var out []string
	if upd.Name != nil {
		out = append(out, "name")
	}
	if upd.Description != nil {
		out = append(out, "description")
	}
	if upd.Admin != nil {
		out = append(out, "admin")
	}
	return out
}

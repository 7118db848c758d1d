// internal/app/features/boards/boards.go
package boards

import (
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/features/shared"
	boardstore "github.com/dalemusser/taskhub/internal/app/store/boards"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleCreate handles POST /boards.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in boardstore.NewBoard
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "create board")
	defer cancel()

	b, err := h.Boards.CreateBoard(ctx, in)
	h.Audit.BoardCreated(r, b.ID, in.Name, err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, shared.IDResponse{ID: b.ID})
}

// ServeList handles GET /boards and GET /boards?team_id=...
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Boards.ListBoards(r.Context(), r.URL.Query().Get("team_id"))
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, list)
}

// ServeBoard handles GET /boards/{id}.
func (h *Handler) ServeBoard(w http.ResponseWriter, r *http.Request) {
	b, err := h.Boards.GetBoard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, b)
}

// HandleUpdate handles PATCH and PUT /boards/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var upd boardstore.BoardUpdate
	if err := shared.DecodeJSON(r, &upd); err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "update board")
	defer cancel()

	b, err := h.Boards.UpdateBoard(ctx, id, upd)
	h.Audit.BoardUpdated(r, id, boardFields(upd), err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, b)
}

// HandleDelete handles DELETE /boards/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "delete board")
	defer cancel()

	err := h.Boards.DeleteBoard(ctx, id)
	h.Audit.BoardDeleted(r, id, err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, shared.StatusResponse{Status: "deleted"})
}

func boardFields(upd boardstore.BoardUpdate) []string {
	var out []string
	if upd.Name != nil {
		out = append(out, "name")
	}
	if upd.Description != nil {
		out = append(out, "description")
	}
	if upd.TeamID != nil {
		out = append(out, "team_id")
	}
	return out
}

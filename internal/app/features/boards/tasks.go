// internal/app/features/boards/tasks.go
package boards

import (
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/features/shared"
	boardstore "github.com/dalemusser/taskhub/internal/app/store/boards"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleAddTask handles POST /boards/{id}/tasks. The status is required.
func (h *Handler) HandleAddTask(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "id")
	var in boardstore.NewTask
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "add task")
	defer cancel()

	t, err := h.Boards.AddTask(ctx, boardID, in)
	h.Audit.TaskAdded(r, boardID, t.ID, in.Title, err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, shared.IDResponse{ID: t.ID})
}

// ServeTasks handles GET /boards/{id}/tasks.
func (h *Handler) ServeTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Boards.ListTasks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, tasks)
}

// ServeTask handles GET /boards/{id}/tasks/{taskID}.
func (h *Handler) ServeTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Boards.GetTask(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "taskID"))
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, t)
}

// HandleUpdateTask handles PATCH and PUT /boards/{id}/tasks/{taskID}.
func (h *Handler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "id")
	taskID := chi.URLParam(r, "taskID")
	var upd boardstore.TaskUpdate
	if err := shared.DecodeJSON(r, &upd); err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "update task")
	defer cancel()

	t, err := h.Boards.UpdateTask(ctx, boardID, taskID, upd)
	h.Audit.TaskUpdated(r, boardID, taskID, taskFields(upd), err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, t)
}

// HandleDeleteTask handles DELETE /boards/{id}/tasks/{taskID}. Deleting a
// task that does not exist succeeds.
func (h *Handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "id")
	taskID := chi.URLParam(r, "taskID")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "delete task")
	defer cancel()

	err := h.Boards.DeleteTask(ctx, boardID, taskID)
	h.Audit.TaskDeleted(r, boardID, taskID, err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, shared.StatusResponse{Status: "deleted"})
}

func taskFields(upd boardstore.TaskUpdate) []string {
	var out []string
	if upd.Title != nil {
		out = append(out, "title")
	}
	if upd.Description != nil {
		out = append(out, "description")
	}
	if upd.Assignee != nil {
		out = append(out, "assignee")
	}
	if upd.Status != nil {
		out = append(out, "status")
	}
	return out
}

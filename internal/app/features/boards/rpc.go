// internal/app/features/boards/rpc.go
package boards

import (
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/features/shared"
	boardstore "github.com/dalemusser/taskhub/internal/app/store/boards"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
)

// createTaskRequest is the body of POST /api/task/create.
type createTaskRequest struct {
	BoardID     string            `json:"board_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Assignee    string            `json:"assignee"`
	Status      models.TaskStatus `json:"status"`
}

// createTaskResponse is returned by POST /api/task/create.
type createTaskResponse struct {
	TaskID string `json:"task_id"`
}

// HandleCreateTaskRPC handles POST /api/task/create. Unlike
// POST /boards/{id}/tasks, a missing status defaults to To-Do.
func (h *Handler) HandleCreateTaskRPC(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	if req.Status == "" {
		req.Status = models.StatusToDo
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "create task")
	defer cancel()

	t, err := h.Boards.AddTask(ctx, req.BoardID, boardstore.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Assignee:    req.Assignee,
		Status:      req.Status,
	})
	h.Audit.TaskAdded(r, req.BoardID, t.ID, req.Title, err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, createTaskResponse{TaskID: t.ID})
}

// HandleDeleteBoardRPC handles DELETE /api/board/delete with body {"id": "<board>"}.
func (h *Handler) HandleDeleteBoardRPC(w http.ResponseWriter, r *http.Request) {
	var req shared.RPCRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Mutation(), h.Log, "delete board")
	defer cancel()

	err := h.Boards.DeleteBoard(ctx, req.ID)
	h.Audit.BoardDeleted(r, req.ID, err)
	if err != nil {
		shared.WriteError(w, h.Log, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, shared.StatusResponse{Status: "deleted"})
}

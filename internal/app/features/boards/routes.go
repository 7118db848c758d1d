// internal/app/features/boards/routes.go
package boards

import "github.com/go-chi/chi/v5"

// Routes returns the router mounted under /boards.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Get("/", h.ServeList)

	r.Get("/{id}", h.ServeBoard)
	r.Patch("/{id}", h.HandleUpdate)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	// TASKS
	r.Post("/{id}/tasks", h.HandleAddTask)
	r.Get("/{id}/tasks", h.ServeTasks)
	r.Get("/{id}/tasks/{taskID}", h.ServeTask)
	r.Patch("/{id}/tasks/{taskID}", h.HandleUpdateTask)
	r.Put("/{id}/tasks/{taskID}", h.HandleUpdateTask)
	r.Delete("/{id}/tasks/{taskID}", h.HandleDeleteTask)
	return r
}

// APIRoutes registers the /api/task/... and /api/board/... endpoints on r.
func APIRoutes(r chi.Router, h *Handler) {
	r.Post("/task/create", h.HandleCreateTaskRPC)
	r.Delete("/board/delete", h.HandleDeleteBoardRPC)
}

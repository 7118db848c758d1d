// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Routes returns the router mounted under /users.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Get("/", h.ServeList)

	r.Get("/{id}", h.ServeUser)
	r.Patch("/{id}", h.HandleUpdate)
	r.Put("/{id}", h.HandleUpdate)

	r.Get("/{id}/teams", h.ServeTeams)
	return r
}

// APIRoutes registers the /api/user/... endpoints on r.
func APIRoutes(r chi.Router, h *Handler) {
	r.Post("/user/get-teams", h.HandleGetTeams)
}

// internal/app/features/teams/routes.go
package teams

import "github.com/go-chi/chi/v5"

// Routes returns the router mounted under /teams.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Get("/", h.ServeList)

	r.Get("/{id}", h.ServeTeam)
	r.Patch("/{id}", h.HandleUpdate)
	r.Put("/{id}", h.HandleUpdate)

	// MEMBERSHIP
	r.Get("/{id}/users", h.ServeMembers)
	r.Post("/{id}/users", h.HandleAddMembers)
	r.Delete("/{id}/users", h.HandleRemoveMembers)
	return r
}

// APIRoutes registers the /api/team/... endpoints on r.
func APIRoutes(r chi.Router, h *Handler) {
	r.Post("/team/add-users", h.HandleAddUsersRPC)
	r.Post("/team/remove-users", h.HandleRemoveUsersRPC)
	r.Post("/team/list-users", h.HandleListUsersRPC)
}

// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"
	"github.com/halaqahub/halaqahub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		// LIST (active or trash via ?view=trash)
		pr.Get("/", h.HandleList)

		// CREATE
		pr.Post("/", h.HandleCreate)

		// DETAIL
		pr.Get("/{id}", h.HandleGet)

		// EDIT
		pr.Put("/{id}", h.HandleUpdate)

		// LIFECYCLE
		pr.Delete("/{id}", h.HandleSoftDelete)
		pr.Post("/{id}/restore", h.HandleRestore)
		pr.Delete("/{id}/permanent", h.HandlePermanentDelete)
		pr.Post("/bulk/delete", h.HandleBulkSoftDelete)
		pr.Post("/bulk/restore", h.HandleBulkRestore)
		pr.Post("/bulk/permanent-delete", h.HandleBulkPermanentDelete)

		// MEMBERSHIP
		pr.Get("/{id}/mentees", h.HandleListMentees)
		pr.Post("/{id}/mentees/propose", h.HandleProposeAttach)
		pr.Post("/{id}/mentees/attach", h.HandleAttach)
		pr.Post("/{id}/mentees/detach", h.HandleDetach)
		pr.Post("/{id}/mentees/move", h.HandleMove)
	})

	return r
}

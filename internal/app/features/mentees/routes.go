// internal/app/features/mentees/routes.go
package mentees

import (
	"github.com/go-chi/chi/v5"
	"github.com/halaqahub/halaqahub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		// LIST (?ungrouped=true, ?gender=, ?q=, ?view=trash)
		pr.Get("/", h.HandleList)

		// CREATE
		pr.Post("/", h.HandleCreate)

		// DETAIL / EDIT
		pr.Get("/{id}", h.HandleGet)
		pr.Put("/{id}", h.HandleUpdate)

		// LIFECYCLE
		pr.Delete("/{id}", h.HandleSoftDelete)
		pr.Post("/{id}/restore", h.HandleRestore)

		// AUDIT
		pr.Get("/{id}/history", h.HandleHistory)
	})

	return r
}

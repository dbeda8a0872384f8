// internal/app/features/mentors/routes.go
package mentors

import (
	"github.com/go-chi/chi/v5"
	"github.com/halaqahub/halaqahub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		// LIST (?available=true narrows to mentors with no active group)
		pr.Get("/", h.HandleList)

		// CREATE
		pr.Post("/", h.HandleCreate)

		// DETAIL / EDIT / DELETE
		pr.Get("/{id}", h.HandleGet)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}

// internal/app/features/importcsv/routes.go
package importcsv

import (
	"github.com/go-chi/chi/v5"
	"github.com/halaqahub/halaqahub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Post("/groups", h.HandleImport)
		pr.Get("/groups/template", h.HandleTemplate)
	})

	return r
}

// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/halaqahub/halaqahub/internal/app/system/auth"
	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// Handler closes the session.
type Handler struct {
	SM  *auth.SessionManager
	Log *zap.Logger
}

func NewHandler(sm *auth.SessionManager, log *zap.Logger) *Handler {
	return &Handler{SM: sm, Log: log}
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SM.SignOut(w, r); err != nil {
		h.Log.Warn("sign out failed", zap.Error(err))
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLogout)
	return r
}

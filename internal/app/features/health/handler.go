// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler answers liveness probes with a database round trip.
type Handler struct {
	Client Pinger
	Log    *zap.Logger
}

func NewHandler(client Pinger, log *zap.Logger) *Handler {
	return &Handler{Client: client, Log: log}
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Ping(), h.Log, "health")
	defer cancel()

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health ping failed", zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, httpjson.CodeStore, "Database unreachable.", nil)
		return
	}
	httpjson.Respond(w, http.StatusOK, healthResponse{Status: "ok"})
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleHealth)
	return r
}

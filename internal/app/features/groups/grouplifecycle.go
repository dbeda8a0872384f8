// internal/app/features/groups/grouplifecycle.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleSoftDelete moves the group to the trash, detaching all mentees.
func (h *Handler) HandleSoftDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "groups.soft_delete")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	detached, err := h.Lifecycle.SoftDelete(ctx, id)
	if err != nil {
		h.respondCoreError(w, r, err, nil)
		return
	}
	httpjson.Respond(w, http.StatusOK, softDeleteResponse{Detached: detached})
}

// HandleRestore brings a trashed group back, empty of members.
func (h *Handler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "groups.restore")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	group, err := h.Lifecycle.Restore(ctx, id)
	if err != nil {
		h.respondCoreError(w, r, err, nil)
		return
	}
	httpjson.Respond(w, http.StatusOK, group)
}

// HandlePermanentDelete purges a trashed group.
func (h *Handler) HandlePermanentDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "groups.permanent_delete")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.Lifecycle.PermanentDelete(ctx, id); err != nil {
		h.respondCoreError(w, r, err, nil)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) HandleBulkSoftDelete(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "groups.bulk_soft_delete", func(ctx context.Context, ids []primitive.ObjectID) any {
		return h.Lifecycle.SoftDeleteMany(ctx, ids)
	})
}

func (h *Handler) HandleBulkRestore(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "groups.bulk_restore", func(ctx context.Context, ids []primitive.ObjectID) any {
		return h.Lifecycle.RestoreMany(ctx, ids)
	})
}

func (h *Handler) HandleBulkPermanentDelete(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "groups.bulk_permanent_delete", func(ctx context.Context, ids []primitive.ObjectID) any {
		return h.Lifecycle.PermanentDeleteMany(ctx, ids)
	})
}

func (h *Handler) bulk(w http.ResponseWriter, r *http.Request, op string, run func(ctx context.Context, ids []primitive.ObjectID) any) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, op)
	defer cancel()

	var req idsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "Invalid JSON body.", nil)
		return
	}
	if len(req.IDs) == 0 {
		httpjson.BadRequest(w, "ids is required.", nil)
		return
	}
	ids, ok := parseIDList(req.IDs)
	if !ok {
		httpjson.BadRequest(w, "Invalid group id in ids.", nil)
		return
	}

	httpjson.Respond(w, http.StatusOK, run(ctx, ids))
}

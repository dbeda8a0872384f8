// internal/app/features/announcements/announcements.go
package announcements

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/halaqahub/halaqahub/internal/app/store/storeerr"
	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/app/system/timeouts"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const listLimit = 50

type announcementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "announcements.list")
	defer cancel()

	list, err := h.Store.List(ctx, listLimit)
	if err != nil {
		h.ErrLog.ServerError(w, r, "list announcements failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, list)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "announcements.get")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	a, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			httpjson.NotFound(w, "Announcement not found.")
			return
		}
		h.ErrLog.ServerError(w, r, "load announcement failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, a)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "announcements.create")
	defer cancel()

	req, fields := h.decode(r)
	if len(fields) > 0 {
		httpjson.BadRequest(w, "Validation failed.", fields)
		return
	}

	a, err := h.Store.Create(ctx, models.Announcement{
		Title: strings.TrimSpace(req.Title),
		Body:  h.Sanitizer.Sanitize(req.Body),
	})
	if err != nil {
		h.ErrLog.ServerError(w, r, "create announcement failed", err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, a)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "announcements.update")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	req, fields := h.decode(r)
	if len(fields) > 0 {
		httpjson.BadRequest(w, "Validation failed.", fields)
		return
	}

	err := h.Store.Update(ctx, id, strings.TrimSpace(req.Title), h.Sanitizer.Sanitize(req.Body))
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			httpjson.NotFound(w, "Announcement not found.")
			return
		}
		h.ErrLog.ServerError(w, r, "update announcement failed", err)
		return
	}
	a, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "reload announcement failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, a)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "announcements.delete")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			httpjson.NotFound(w, "Announcement not found.")
			return
		}
		h.ErrLog.ServerError(w, r, "delete announcement failed", err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) decode(r *http.Request) (announcementRequest, map[string]string) {
	var req announcementRequest
	fields := make(map[string]string)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fields["body"] = "invalid JSON body"
		return req, fields
	}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "title is required"
	}
	return req, fields
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "Invalid announcement id.", nil)
		return primitive.NilObjectID, false
	}
	return id, true
}

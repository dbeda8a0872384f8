// internal/app/features/mentees/mentees.go
package mentees

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	menteestore "github.com/halaqahub/halaqahub/internal/app/store/mentees"
	"github.com/halaqahub/halaqahub/internal/app/store/storeerr"
	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/app/system/normalize"
	"github.com/halaqahub/halaqahub/internal/app/system/paging"
	"github.com/halaqahub/halaqahub/internal/app/system/timeouts"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type menteeRequest struct {
	FullName string `json:"full_name"`
	Gender   string `json:"gender"`
}

type listResponse struct {
	Mentees []models.Mentee `json:"mentees"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// HandleList serves the mentee list. ?ungrouped=true narrows to mentees
// with no group, which is what the attach picker needs.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "mentees.list")
	defer cancel()

	page := paging.Parse(r)
	params := menteestore.ListParams{
		Query:     r.URL.Query().Get("q"),
		Gender:    normalize.Gender(r.URL.Query().Get("gender")),
		Ungrouped: r.URL.Query().Get("ungrouped") == "true",
		Deleted:   r.URL.Query().Get("view") == "trash",
		Skip:      page.Skip(),
		Limit:     int64(page.PerPage),
	}

	mentees, total, err := h.Mentees.List(ctx, params)
	if err != nil {
		h.ErrLog.ServerError(w, r, "list mentees failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, listResponse{
		Mentees: mentees,
		Total:   total,
		Page:    int(page.Number),
		PerPage: int(page.PerPage),
	})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mentees.get")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	mentee, err := h.Mentees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			httpjson.NotFound(w, "Mentee not found.")
			return
		}
		h.ErrLog.ServerError(w, r, "load mentee failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, mentee)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mentees.create")
	defer cancel()

	req, fields := h.decodeMentee(r)
	if len(fields) > 0 {
		httpjson.BadRequest(w, "Validation failed.", fields)
		return
	}

	mentee, err := h.Mentees.Create(ctx, models.Mentee{
		FullName: normalize.Name(req.FullName),
		Gender:   normalize.Gender(req.Gender),
	})
	if err != nil {
		h.ErrLog.ServerError(w, r, "create mentee failed", err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, mentee)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mentees.update")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	req, fields := h.decodeMentee(r)
	if len(fields) > 0 {
		httpjson.BadRequest(w, "Validation failed.", fields)
		return
	}

	cur, err := h.Mentees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			httpjson.NotFound(w, "Mentee not found.")
			return
		}
		h.ErrLog.ServerError(w, r, "load mentee failed", err)
		return
	}

	// A gender change while grouped would break the group's homogeneity.
	gender := normalize.Gender(req.Gender)
	if gender != cur.Gender && cur.Grouped() {
		httpjson.Error(w, http.StatusConflict, httpjson.CodeGenderMismatch,
			"Detach the mentee from their group before changing gender.", nil)
		return
	}

	if err := h.Mentees.Update(ctx, id, normalize.Name(req.FullName), gender); err != nil {
		h.ErrLog.ServerError(w, r, "update mentee failed", err)
		return
	}
	mentee, err := h.Mentees.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "reload mentee failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, mentee)
}

// HandleSoftDelete trashes a mentee. A grouped mentee is detached first
// so the change lands in the history.
func (h *Handler) HandleSoftDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "mentees.soft_delete")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	mentee, err := h.Mentees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			httpjson.NotFound(w, "Mentee not found.")
			return
		}
		h.ErrLog.ServerError(w, r, "load mentee failed", err)
		return
	}
	if mentee.DeletedAt != nil {
		httpjson.Error(w, http.StatusConflict, httpjson.CodeValidation,
			"The mentee is already in the trash.", nil)
		return
	}

	if mentee.Grouped() {
		if _, err := h.Rec.Detach(ctx, *mentee.GroupID, []primitive.ObjectID{id}); err != nil {
			h.ErrLog.ServerError(w, r, "detach mentee before delete failed", err)
			return
		}
	}
	if err := h.Mentees.SetDeleted(ctx, id, time.Now().UTC()); err != nil {
		h.ErrLog.ServerError(w, r, "soft delete mentee failed", err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// HandleRestore brings a trashed mentee back, ungrouped.
func (h *Handler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mentees.restore")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	mentee, err := h.Mentees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			httpjson.NotFound(w, "Mentee not found.")
			return
		}
		h.ErrLog.ServerError(w, r, "load mentee failed", err)
		return
	}
	if mentee.DeletedAt == nil {
		httpjson.Error(w, http.StatusConflict, httpjson.CodeValidation,
			"The mentee is not in the trash.", nil)
		return
	}

	if err := h.Mentees.ClearDeleted(ctx, id); err != nil {
		h.ErrLog.ServerError(w, r, "restore mentee failed", err)
		return
	}
	mentee, err = h.Mentees.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "reload mentee failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, mentee)
}

// HandleHistory serves the mentee's membership history, newest first.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mentees.history")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.Mentees.GetByID(ctx, id); err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			httpjson.NotFound(w, "Mentee not found.")
			return
		}
		h.ErrLog.ServerError(w, r, "load mentee failed", err)
		return
	}

	entries, err := h.History.ListByMentee(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "load mentee history failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, entries)
}

func (h *Handler) decodeMentee(r *http.Request) (menteeRequest, map[string]string) {
	var req menteeRequest
	fields := make(map[string]string)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fields["body"] = "invalid JSON body"
		return req, fields
	}
	if normalize.Name(req.FullName) == "" {
		fields["full_name"] = "full name is required"
	}
	if !normalize.Gender(req.Gender).Valid() {
		fields["gender"] = "gender must be ikhwan or akhwat"
	}
	return req, fields
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "Invalid mentee id.", nil)
		return primitive.NilObjectID, false
	}
	return id, true
}

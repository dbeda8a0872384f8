// internal/app/features/mentors/mentors.go
package mentors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	mentorstore "github.com/halaqahub/halaqahub/internal/app/store/mentors"
	"github.com/halaqahub/halaqahub/internal/app/store/storeerr"
	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/app/system/normalize"
	"github.com/halaqahub/halaqahub/internal/app/system/paging"
	"github.com/halaqahub/halaqahub/internal/app/system/timeouts"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mentorRequest struct {
	FullName string `json:"full_name"`
	Gender   string `json:"gender"`
	Phone    string `json:"phone"`
}

type listResponse struct {
	Mentors []models.Mentor `json:"mentors"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// HandleList serves the mentor list. ?available=true excludes mentors
// already leading an active group, which is what the new-group form
// needs.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "mentors.list")
	defer cancel()

	page := paging.Parse(r)
	params := mentorstore.ListParams{
		Query:  r.URL.Query().Get("q"),
		Gender: normalize.Gender(r.URL.Query().Get("gender")),
		Skip:   page.Skip(),
		Limit:  int64(page.PerPage),
	}
	if r.URL.Query().Get("available") == "true" {
		busy, err := h.Groups.ActiveMentorIDs(ctx)
		if err != nil {
			h.ErrLog.ServerError(w, r, "load busy mentors failed", err)
			return
		}
		params.ExcludeIDs = busy
	}

	mentors, total, err := h.Mentors.List(ctx, params)
	if err != nil {
		h.ErrLog.ServerError(w, r, "list mentors failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, listResponse{
		Mentors: mentors,
		Total:   total,
		Page:    int(page.Number),
		PerPage: int(page.PerPage),
	})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mentors.get")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	mentor, err := h.Mentors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			httpjson.NotFound(w, "Mentor not found.")
			return
		}
		h.ErrLog.ServerError(w, r, "load mentor failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, mentor)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mentors.create")
	defer cancel()

	req, fields := h.decodeMentor(r)
	if len(fields) > 0 {
		httpjson.BadRequest(w, "Validation failed.", fields)
		return
	}

	mentor, err := h.Mentors.Create(ctx, models.Mentor{
		FullName: normalize.Name(req.FullName),
		Gender:   normalize.Gender(req.Gender),
		Phone:    req.Phone,
	})
	if err != nil {
		h.ErrLog.ServerError(w, r, "create mentor failed", err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, mentor)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mentors.update")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	req, fields := h.decodeMentor(r)
	if len(fields) > 0 {
		httpjson.BadRequest(w, "Validation failed.", fields)
		return
	}

	// Changing gender while the mentor leads an active group would break
	// the group's homogeneity, so refuse it.
	cur, err := h.Mentors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			httpjson.NotFound(w, "Mentor not found.")
			return
		}
		h.ErrLog.ServerError(w, r, "load mentor failed", err)
		return
	}
	gender := normalize.Gender(req.Gender)
	if gender != cur.Gender {
		if _, err := h.Groups.FindActiveByMentor(ctx, id); err == nil {
			httpjson.Error(w, http.StatusConflict, httpjson.CodeValidation,
				"Cannot change gender while the mentor leads an active group.", nil)
			return
		} else if !errors.Is(err, storeerr.ErrNotFound) {
			h.ErrLog.ServerError(w, r, "check mentor assignment failed", err)
			return
		}
	}

	if err := h.Mentors.Update(ctx, id, normalize.Name(req.FullName), gender, req.Phone); err != nil {
		h.ErrLog.ServerError(w, r, "update mentor failed", err)
		return
	}
	mentor, err := h.Mentors.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "reload mentor failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, mentor)
}

// HandleDelete removes a mentor. Refused while they lead an active
// group; the group must be re-mentored or trashed first.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mentors.delete")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	group, err := h.Groups.FindActiveByMentor(ctx, id)
	switch {
	case err == nil:
		httpjson.Error(w, http.StatusConflict, httpjson.CodeMentorAssigned,
			"This mentor still leads an active group.",
			map[string]string{"group_id": group.ID.Hex(), "group_name": group.Name})
		return
	case !errors.Is(err, storeerr.ErrNotFound):
		h.ErrLog.ServerError(w, r, "check mentor assignment failed", err)
		return
	}

	if err := h.Mentors.Delete(ctx, id); err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			httpjson.NotFound(w, "Mentor not found.")
			return
		}
		h.ErrLog.ServerError(w, r, "delete mentor failed", err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) decodeMentor(r *http.Request) (mentorRequest, map[string]string) {
	var req mentorRequest
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
		httpjson.BadRequest(w, "Invalid mentor id.", nil)
		return primitive.NilObjectID, false
	}
	return id, true
}

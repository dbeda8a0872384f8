// internal/app/features/groups/groupedit.go
package groups

import (
	"encoding/json"
	"net/http"

	"github.com/halaqahub/halaqahub/internal/app/lifecycle"
	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/app/system/normalize"
	"github.com/halaqahub/halaqahub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleCreate creates a group, optionally with a mentor and initial
// mentees. Initial mentees that already belong to another group need
// confirm_reassign, otherwise the response carries the conflict list.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "groups.create")
	defer cancel()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "Invalid JSON body.", nil)
		return
	}

	params := lifecycle.CreateParams{
		Name:            req.Name,
		Description:     req.Description,
		Gender:          normalize.Gender(req.Gender),
		ConfirmReassign: req.ConfirmReassign,
	}
	if req.MentorID != "" {
		mentorID, err := primitive.ObjectIDFromHex(req.MentorID)
		if err != nil {
			httpjson.BadRequest(w, "Invalid mentor id.", nil)
			return
		}
		params.MentorID = &mentorID
	}
	if len(req.MenteeIDs) > 0 {
		ids, ok := parseIDList(req.MenteeIDs)
		if !ok {
			httpjson.BadRequest(w, "Invalid mentee id.", nil)
			return
		}
		params.MenteeIDs = ids
	}

	group, conflicts, err := h.Lifecycle.Create(ctx, params)
	if err != nil {
		h.respondCoreError(w, r, err, conflicts)
		return
	}
	httpjson.Respond(w, http.StatusCreated, group)
}

// HandleUpdate edits name, description or mentor. A mentor_id of ""
// clears the mentor; absent fields are left unchanged.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "groups.update")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "Invalid JSON body.", nil)
		return
	}

	params := lifecycle.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.MentorID != nil {
		if *req.MentorID == "" {
			params.ClearMentor = true
		} else {
			mentorID, err := primitive.ObjectIDFromHex(*req.MentorID)
			if err != nil {
				httpjson.BadRequest(w, "Invalid mentor id.", nil)
				return
			}
			params.MentorID = &mentorID
		}
	}

	group, err := h.Lifecycle.Update(ctx, id, params)
	if err != nil {
		h.respondCoreError(w, r, err, nil)
		return
	}
	httpjson.Respond(w, http.StatusOK, group)
}

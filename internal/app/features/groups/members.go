// internal/app/features/groups/members.go
package groups

import (
	"encoding/json"
	"net/http"

	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleListMentees serves the group's current members.
func (h *Handler) HandleListMentees(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "groups.list_mentees")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.Groups.GetByID(ctx, id); err != nil {
		h.respondCoreError(w, r, mapNotFound(err), nil)
		return
	}

	mentees, err := h.Mentees.ListByGroup(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "list group mentees failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, mentees)
}

// HandleProposeAttach dry-runs an attach: it returns the proposal with
// simple attaches and conflicting reassigns, writing nothing.
func (h *Handler) HandleProposeAttach(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "groups.propose_attach")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	ids, ok := h.menteeIDs(w, r)
	if !ok {
		return
	}

	prop, err := h.Rec.ProposeAttach(ctx, id, ids)
	if err != nil {
		h.respondCoreError(w, r, err, nil)
		return
	}
	httpjson.Respond(w, http.StatusOK, proposalResponse{Proposal: prop})
}

// HandleAttach validates and applies an attach in one request. When the
// request contains conflicting reassigns and confirm_reassign is false,
// the response is reassign_confirmation_required with the conflicts.
func (h *Handler) HandleAttach(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "groups.attach")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req menteeIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "Invalid JSON body.", nil)
		return
	}
	ids, ok := parseIDList(req.MenteeIDs)
	if !ok || len(ids) == 0 {
		httpjson.BadRequest(w, "mentee_ids is required.", nil)
		return
	}

	prop, err := h.Rec.ProposeAttach(ctx, id, ids)
	if err != nil {
		h.respondCoreError(w, r, err, nil)
		return
	}
	attached, err := h.Rec.CommitAttach(ctx, prop, req.ConfirmReassign)
	if err != nil {
		h.respondCoreError(w, r, err, prop.Conflicts)
		return
	}
	httpjson.Respond(w, http.StatusOK, attachResponse{Attached: attached})
}

// HandleDetach removes mentees from the group. Idempotent.
func (h *Handler) HandleDetach(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "groups.detach")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	ids, ok := h.menteeIDs(w, r)
	if !ok {
		return
	}

	detached, err := h.Rec.Detach(ctx, id, ids)
	if err != nil {
		h.respondCoreError(w, r, err, nil)
		return
	}
	httpjson.Respond(w, http.StatusOK, detachResponse{Detached: detached})
}

// HandleMove transfers mentees from this group to another in one step.
func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "groups.move")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "Invalid JSON body.", nil)
		return
	}
	toID, err := primitive.ObjectIDFromHex(req.ToGroupID)
	if err != nil {
		httpjson.BadRequest(w, "Invalid to_group_id.", nil)
		return
	}
	ids, ok := parseIDList(req.MenteeIDs)
	if !ok || len(ids) == 0 {
		httpjson.BadRequest(w, "mentee_ids is required.", nil)
		return
	}

	moved, err := h.Rec.Move(ctx, id, toID, ids)
	if err != nil {
		h.respondCoreError(w, r, err, nil)
		return
	}
	httpjson.Respond(w, http.StatusOK, movedResponse{Moved: moved})
}

func (h *Handler) menteeIDs(w http.ResponseWriter, r *http.Request) ([]primitive.ObjectID, bool) {
	var req menteeIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "Invalid JSON body.", nil)
		return nil, false
	}
	ids, ok := parseIDList(req.MenteeIDs)
	if !ok || len(ids) == 0 {
		httpjson.BadRequest(w, "mentee_ids is required.", nil)
		return nil, false
	}
	return ids, true
}

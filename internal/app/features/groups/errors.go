// internal/app/features/groups/errors.go
package groups

import (
	"errors"
	"net/http"

	"github.com/halaqahub/halaqahub/internal/app/lifecycle"
	"github.com/halaqahub/halaqahub/internal/app/membership"
	"github.com/halaqahub/halaqahub/internal/app/store/storeerr"
	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondCoreError maps the core error taxonomy onto the JSON envelope.
// conflicts carries the decision list for reassign_confirmation_required
// responses; pass nil when the operation cannot produce conflicts.
func (h *Handler) respondCoreError(w http.ResponseWriter, r *http.Request, err error, conflicts []membership.Conflict) {
	var ve *lifecycle.ValidationError
	var ma *lifecycle.MentorAssignedError
	var nf *membership.NotFoundError
	var gm *membership.GenderMismatchError

	switch {
	case errors.As(err, &ve):
		httpjson.BadRequest(w, "Validation failed.", ve.Fields)
	case errors.As(err, &ma):
		httpjson.Error(w, http.StatusConflict, httpjson.CodeMentorAssigned,
			"This mentor already leads an active group.",
			map[string]string{
				"mentor_id":  ma.MentorID.Hex(),
				"group_id":   ma.GroupID.Hex(),
				"group_name": ma.GroupName,
			})
	case errors.As(err, &nf):
		httpjson.Error(w, http.StatusNotFound, httpjson.CodeNotFound,
			"One or more mentees do not exist.", hexIDs(nf.MenteeIDs))
	case errors.As(err, &gm):
		httpjson.Error(w, http.StatusConflict, httpjson.CodeGenderMismatch,
			"One or more mentees do not match the group's gender.", hexIDs(gm.MenteeIDs))
	case errors.Is(err, membership.ErrReassignNotConfirmed):
		httpjson.Error(w, http.StatusConflict, httpjson.CodeConfirmRequired,
			"Some mentees already belong to another group. Confirm the reassign to proceed.",
			conflicts)
	case errors.Is(err, membership.ErrGroupNotFound):
		httpjson.NotFound(w, "Group not found.")
	case errors.Is(err, lifecycle.ErrMentorNotFound):
		httpjson.NotFound(w, "Mentor not found.")
	case errors.Is(err, membership.ErrMenteeNotFound):
		httpjson.NotFound(w, "Mentee not found.")
	case errors.Is(err, membership.ErrGroupNotActive):
		httpjson.Error(w, http.StatusConflict, httpjson.CodeValidation,
			"The group is in the trash and cannot hold mentees.", nil)
	case errors.Is(err, lifecycle.ErrAlreadyDeleted):
		httpjson.Error(w, http.StatusConflict, httpjson.CodeValidation,
			"The group is already in the trash.", nil)
	case errors.Is(err, lifecycle.ErrNotDeleted):
		httpjson.Error(w, http.StatusConflict, httpjson.CodeValidation,
			"The group is not in the trash.", nil)
	case errors.Is(err, lifecycle.ErrGroupNotEmpty):
		httpjson.Error(w, http.StatusConflict, httpjson.CodeValidation,
			"The group still holds mentees and cannot be permanently deleted.", nil)
	default:
		h.ErrLog.ServerError(w, r, "group operation failed", err)
	}
}

// mapNotFound turns a raw store miss into the core group-not-found
// error so direct store reads share the envelope mapping.
func mapNotFound(err error) error {
	if errors.Is(err, storeerr.ErrNotFound) {
		return membership.ErrGroupNotFound
	}
	return err
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

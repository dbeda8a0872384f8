// internal/app/features/groups/types.go
package groups

import (
	"github.com/halaqahub/halaqahub/internal/app/membership"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Gender          string   `json:"gender"`
	MentorID        string   `json:"mentor_id"`
	MenteeIDs       []string `json:"mentee_ids"`
	ConfirmReassign bool     `json:"confirm_reassign"`
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MentorID    *string `json:"mentor_id"` // "" clears the mentor
}

type menteeIDsRequest struct {
	MenteeIDs       []string `json:"mentee_ids"`
	ConfirmReassign bool     `json:"confirm_reassign"`
}

type moveRequest struct {
	ToGroupID string   `json:"to_group_id"`
	MenteeIDs []string `json:"mentee_ids"`
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

// groupView is the list/detail representation: the group plus the
// hydrated mentor name and member count.
type groupView struct {
	models.Group
	MentorName  string `json:"mentor_name,omitempty"`
	MenteeCount int64  `json:"mentee_count"`
}

type listResponse struct {
	Groups  []groupView `json:"groups"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

type detailResponse struct {
	groupView
	Mentees []models.Mentee `json:"mentees"`
}

type attachResponse struct {
	Attached int `json:"attached"`
}

type detachResponse struct {
	Detached int `json:"detached"`
}

type movedResponse struct {
	Moved int `json:"moved"`
}

type softDeleteResponse struct {
	Detached int `json:"detached"`
}

type proposalResponse struct {
	Proposal membership.Proposal `json:"proposal"`
}

func parseIDList(raw []string) ([]primitive.ObjectID, bool) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

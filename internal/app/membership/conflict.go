// internal/app/membership/conflict.go
package membership

import (
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conflict describes a conflicting reassign: the mentee already belongs
// to a different active group than the attach target. It is a decision
// point, not an error — the operator must confirm before the write.
type Conflict struct {
	Mentee         models.Mentee      `json:"mentee"`
	CurrentGroupID primitive.ObjectID `json:"current_group_id"`
}

// Classify decides whether attaching m to targetGroupID is a simple
// attach or a conflicting reassign. Pure function over already-fetched
// data; no side effects.
//
// Simple attach: the mentee is ungrouped, or already in the target group
// (re-attaching is a no-op). Conflicting reassign: the mentee belongs to
// a different group, returned in the Conflict.
func Classify(m models.Mentee, targetGroupID primitive.ObjectID) (Conflict, bool) {
	if m.GroupID == nil || *m.GroupID == targetGroupID {
		return Conflict{}, false
	}
	return Conflict{Mentee: m, CurrentGroupID: *m.GroupID}, true
}

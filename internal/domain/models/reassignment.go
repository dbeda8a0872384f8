// internal/domain/models/reassignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reassignment is one history entry for a mentee's membership change.
// FromGroupID nil means the mentee was ungrouped before; ToGroupID nil
// means the change was a detach. Every write that changes a mentee's
// group_id produces exactly one entry.
type Reassignment struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	MenteeID    primitive.ObjectID  `bson:"mentee_id" json:"mentee_id"`
	FromGroupID *primitive.ObjectID `bson:"from_group_id" json:"from_group_id"`
	ToGroupID   *primitive.ObjectID `bson:"to_group_id" json:"to_group_id"`
	MovedAt     time.Time           `bson:"moved_at" json:"moved_at"`
}

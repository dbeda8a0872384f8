// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a mentoring group (halaqah).
//
// NOTE:
//   - Membership is not embedded here; each mentee carries a group_id
//     pointing back at its group.
//   - MentorID is nullable: a group may be mentor-less.
//   - DeletedAt implements soft delete. A nil DeletedAt means the group
//     is active and eligible for membership operations; a soft-deleted
//     group keeps its mentor and description for audit and restore, but
//     holds no mentees.
type Group struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	Name        string              `bson:"name" json:"name"`
	NameCI      string              `bson:"name_ci" json:"name_ci"`
	Description string              `bson:"description" json:"description"`
	MentorID    *primitive.ObjectID `bson:"mentor_id" json:"mentor_id"`
	Gender      Gender              `bson:"gender" json:"gender"`

	DeletedAt *time.Time `bson:"deleted_at" json:"deleted_at"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Active reports whether the group is eligible for membership operations.
func (g Group) Active() bool {
	return g.DeletedAt == nil
}

// internal/domain/models/mentee.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mentee is a program participant. GroupID is the membership edge: nil
// means ungrouped (a first-class state), non-nil must reference an active
// group whose gender matches the mentee's.
type Mentee struct {
	ID         primitive.ObjectID  `bson:"_id" json:"id"`
	FullName   string              `bson:"full_name" json:"full_name"`
	FullNameCI string              `bson:"full_name_ci" json:"full_name_ci"`
	Gender     Gender              `bson:"gender" json:"gender"`
	GroupID    *primitive.ObjectID `bson:"group_id" json:"group_id"`

	DeletedAt *time.Time `bson:"deleted_at" json:"deleted_at"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Grouped reports whether the mentee currently belongs to a group.
func (m Mentee) Grouped() bool {
	return m.GroupID != nil
}

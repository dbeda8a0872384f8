// internal/domain/models/mentor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mentor is a murabbi/murabbiyah who can be assigned to at most one
// active group at a time. A mentor with no active group is "available"
// for new-group assignment.
type Mentor struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"`
	Gender     Gender             `bson:"gender" json:"gender"`
	Phone      string             `bson:"phone" json:"phone"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

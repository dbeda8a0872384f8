// internal/app/lifecycle/store.go
package lifecycle

import (
	"context"
	"time"

	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupStore is the group lifecycle contract. Lookups return
// storeerr.ErrNotFound for stale ids; writes that would produce two
// active groups with the same folded name return storeerr.ErrDuplicate.
type GroupStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error)

	// Create inserts the group, filling id, folded name and timestamps,
	// and returns the stored document.
	Create(ctx context.Context, g models.Group) (models.Group, error)

	// Update rewrites name, description and mentor for an existing group.
	Update(ctx context.Context, g models.Group) error

	// SetDeleted moves the group to the trash by stamping deleted_at.
	SetDeleted(ctx context.Context, id primitive.ObjectID, at time.Time) error

	// ClearDeleted restores a trashed group. Subject to the same active
	// name uniqueness as Create.
	ClearDeleted(ctx context.Context, id primitive.ObjectID) error

	// Delete removes the document permanently.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// FindActiveByMentor returns the active group the mentor leads, or
	// storeerr.ErrNotFound when they lead none.
	FindActiveByMentor(ctx context.Context, mentorID primitive.ObjectID) (models.Group, error)
}

// MentorStore is the mentor read contract the manager needs.
type MentorStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Mentor, error)
}

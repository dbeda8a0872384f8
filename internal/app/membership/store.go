// internal/app/membership/store.go
package membership

import (
	"context"

	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupStore is the group read contract the reconciler needs. Lookups
// return storeerr.ErrNotFound for stale ids.
type GroupStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error)
}

// MenteeStore is the membership write contract. The mentee's group_id
// field is the membership edge, so attach/detach/move are single-field
// updates batched per call; a failed call must leave either all or none
// of the batch applied as far as the caller can observe.
type MenteeStore interface {
	// GetByIDs returns the mentees for the given ids. Stale ids are
	// simply absent from the result, not an error.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Mentee, error)

	// ListByGroup returns all mentees currently attached to the group.
	ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Mentee, error)

	// Attach sets group_id for each id.
	Attach(ctx context.Context, groupID primitive.ObjectID, ids []primitive.ObjectID) error

	// Detach clears group_id for each id currently pointing at groupID
	// and returns the ids that were actually detached. Ids that were not
	// in the group are skipped, not an error.
	Detach(ctx context.Context, groupID primitive.ObjectID, ids []primitive.ObjectID) ([]primitive.ObjectID, error)

	// Move re-points group_id from one group to another for each id
	// currently in the source group, as one store call.
	Move(ctx context.Context, fromGroupID, toGroupID primitive.ObjectID, ids []primitive.ObjectID) error
}

// HistoryStore records membership changes. The reconciler logs an entry
// for every mentee whose group actually changed; it keeps no history
// locally.
type HistoryStore interface {
	Log(ctx context.Context, entries []models.Reassignment) error
}

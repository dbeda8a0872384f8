// internal/app/store/history/historystore.go
package historystore

import (
	"context"

	"github.com/halaqahub/halaqahub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// listLimit caps one history read; entries beyond it are only reachable
// through the raw collection.
const listLimit = 200

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reassignments")}
}

// Log appends the history entries. Unordered so one bad entry does not
// block the rest of the batch.
func (s *Store) Log(ctx context.Context, entries []models.Reassignment) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, len(entries))
	for i, e := range entries {
		if e.ID.IsZero() {
			e.ID = primitive.NewObjectID()
		}
		docs[i] = e
	}
	opts := options.InsertMany().SetOrdered(false)
	_, err := s.c.InsertMany(ctx, docs, opts)
	return err
}

// ListByMentee returns the mentee's membership history, newest first.
func (s *Store) ListByMentee(ctx context.Context, menteeID primitive.ObjectID) ([]models.Reassignment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "moved_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(listLimit)
	cur, err := s.c.Find(ctx, bson.M{"mentee_id": menteeID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.Reassignment
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByMentee returns the number of history entries for one mentee.
func (s *Store) CountByMentee(ctx context.Context, menteeID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"mentee_id": menteeID})
}

// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/halaqahub/halaqahub/internal/app/store/storeerr"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

// ErrDuplicateGroupName fires on the unique name_ci index over active
// groups. Trashed groups do not reserve their name.
var ErrDuplicateGroupName = fmt.Errorf("a group with this name already exists: %w", storeerr.ErrDuplicate)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Group{}, storeerr.ErrNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.DeletedAt = nil
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrDuplicateGroupName
		}
		return models.Group{}, err
	}
	return g, nil
}

// Update rewrites the editable fields. MentorID nil clears the mentor.
func (s *Store) Update(ctx context.Context, g models.Group) error {
	set := bson.M{
		"name":        g.Name,
		"name_ci":     text.Fold(g.Name),
		"description": g.Description,
		"mentor_id":   g.MentorID,
		"updated_at":  time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, g.ID, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateGroupName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return storeerr.ErrNotFound
	}
	return nil
}

func (s *Store) SetDeleted(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"deleted_at": at,
		"updated_at": at,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storeerr.ErrNotFound
	}
	return nil
}

func (s *Store) ClearDeleted(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"deleted_at": nil,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateGroupName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return storeerr.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storeerr.ErrNotFound
	}
	return nil
}

// FindActiveByMentor returns the active group the mentor leads. The
// one-active-group rule makes this unique.
func (s *Store) FindActiveByMentor(ctx context.Context, mentorID primitive.ObjectID) (models.Group, error) {
	var g models.Group
	err := s.c.FindOne(ctx, bson.M{"mentor_id": mentorID, "deleted_at": nil}).Decode(&g)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Group{}, storeerr.ErrNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}

// ListParams filters the group list. Deleted selects the trash view.
type ListParams struct {
	Query   string
	Gender  models.Gender
	Deleted bool
	Skip    int64
	Limit   int64
}

// List returns one page of groups plus the total match count, sorted by
// folded name.
func (s *Store) List(ctx context.Context, p ListParams) ([]models.Group, int64, error) {
	filter := bson.M{}
	if p.Deleted {
		filter["deleted_at"] = bson.M{"$ne": nil}
	} else {
		filter["deleted_at"] = nil
	}
	if p.Gender != "" {
		filter["gender"] = p.Gender
	}
	if q := text.Fold(p.Query); q != "" {
		filter["name_ci"] = bson.M{"$regex": regexp.QuoteMeta(q)}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	if p.Skip > 0 {
		opts.SetSkip(p.Skip)
	}
	if p.Limit > 0 {
		opts.SetLimit(p.Limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}

// ActiveMentorIDs returns the mentor ids currently leading an active
// group, for the available-mentors view.
func (s *Store) ActiveMentorIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	raw, err := s.c.Distinct(ctx, "mentor_id", bson.M{
		"deleted_at": nil,
		"mentor_id":  bson.M{"$ne": nil},
	})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

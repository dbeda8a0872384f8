// internal/app/store/mentors/mentorstore.go
package mentorstore

import (
	"context"
	"regexp"
	"time"

	"github.com/halaqahub/halaqahub/internal/app/store/storeerr"
	"github.com/halaqahub/halaqahub/internal/domain/models"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("mentors")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Mentor, error) {
	var m models.Mentor
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Mentor{}, storeerr.ErrNotFound
		}
		return models.Mentor{}, err
	}
	return m, nil
}

// GetByIDs returns the mentors keyed by id, for hydrating list views.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Mentor, error) {
	out := make(map[primitive.ObjectID]models.Mentor)
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var mentors []models.Mentor
	if err := cur.All(ctx, &mentors); err != nil {
		return nil, err
	}
	for _, m := range mentors {
		out[m.ID] = m
	}
	return out, nil
}

// FindByName resolves a mentor by folded display name.
func (s *Store) FindByName(ctx context.Context, name string) (models.Mentor, error) {
	var m models.Mentor
	err := s.c.FindOne(ctx, bson.M{"full_name_ci": text.Fold(name)}).Decode(&m)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Mentor{}, storeerr.ErrNotFound
		}
		return models.Mentor{}, err
	}
	return m, nil
}

func (s *Store) Create(ctx context.Context, m models.Mentor) (models.Mentor, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.FullNameCI = text.Fold(m.FullName)
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Mentor{}, err
	}
	return m, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, fullName string, gender models.Gender, phone string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"full_name":    fullName,
		"full_name_ci": text.Fold(fullName),
		"gender":       gender,
		"phone":        phone,
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
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

// ListParams filters the mentor list. ExcludeIDs drops mentors already
// leading an active group, for the available-mentors view.
type ListParams struct {
	Query      string
	Gender     models.Gender
	ExcludeIDs []primitive.ObjectID
	Skip       int64
	Limit      int64
}

func (s *Store) List(ctx context.Context, p ListParams) ([]models.Mentor, int64, error) {
	filter := bson.M{}
	if p.Gender != "" {
		filter["gender"] = p.Gender
	}
	if len(p.ExcludeIDs) > 0 {
		filter["_id"] = bson.M{"$nin": p.ExcludeIDs}
	}
	if q := text.Fold(p.Query); q != "" {
		filter["full_name_ci"] = bson.M{"$regex": regexp.QuoteMeta(q)}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}})
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

	var mentors []models.Mentor
	if err := cur.All(ctx, &mentors); err != nil {
		return nil, 0, err
	}
	return mentors, total, nil
}

// internal/app/store/mentees/menteestore.go
package menteestore

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
	return &Store{c: db.Collection("mentees")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Mentee, error) {
	var m models.Mentee
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Mentee{}, storeerr.ErrNotFound
		}
		return models.Mentee{}, err
	}
	return m, nil
}

// GetByIDs returns the active mentees for the given ids. Trashed or
// unknown ids are simply absent from the result.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Mentee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "deleted_at": nil})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var mentees []models.Mentee
	if err := cur.All(ctx, &mentees); err != nil {
		return nil, err
	}
	return mentees, nil
}

func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Mentee, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID, "deleted_at": nil},
		options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var mentees []models.Mentee
	if err := cur.All(ctx, &mentees); err != nil {
		return nil, err
	}
	return mentees, nil
}

func (s *Store) Attach(ctx context.Context, groupID primitive.ObjectID, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"group_id": groupID, "updated_at": time.Now().UTC()}})
	return err
}

// Detach clears group_id for the ids that actually point at groupID and
// returns those ids. Ids outside the group are left alone.
func (s *Store) Detach(ctx context.Context, groupID primitive.ObjectID, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}, "group_id": groupID}

	cur, err := s.c.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	detached := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		detached[i] = d.ID
	}
	_, err = s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": detached}},
		bson.M{"$set": bson.M{"group_id": nil, "updated_at": time.Now().UTC()}})
	if err != nil {
		return nil, err
	}
	return detached, nil
}

// Move re-points group_id in one update so a mentee is never observably
// ungrouped mid-transfer.
func (s *Store) Move(ctx context.Context, fromGroupID, toGroupID primitive.ObjectID, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "group_id": fromGroupID},
		bson.M{"$set": bson.M{"group_id": toGroupID, "updated_at": time.Now().UTC()}})
	return err
}

// FindByName resolves an active mentee by folded display name.
func (s *Store) FindByName(ctx context.Context, name string) (models.Mentee, error) {
	var m models.Mentee
	err := s.c.FindOne(ctx, bson.M{"full_name_ci": text.Fold(name), "deleted_at": nil}).Decode(&m)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Mentee{}, storeerr.ErrNotFound
		}
		return models.Mentee{}, err
	}
	return m, nil
}

func (s *Store) Create(ctx context.Context, m models.Mentee) (models.Mentee, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.FullNameCI = text.Fold(m.FullName)
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Mentee{}, err
	}
	return m, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, fullName string, gender models.Gender) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"full_name":    fullName,
		"full_name_ci": text.Fold(fullName),
		"gender":       gender,
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

// ListParams filters the mentee list. Ungrouped narrows to mentees with
// no group, for the assignment picker.
type ListParams struct {
	Query     string
	Gender    models.Gender
	Ungrouped bool
	Deleted   bool
	Skip      int64
	Limit     int64
}

func (s *Store) List(ctx context.Context, p ListParams) ([]models.Mentee, int64, error) {
	filter := bson.M{}
	if p.Deleted {
		filter["deleted_at"] = bson.M{"$ne": nil}
	} else {
		filter["deleted_at"] = nil
	}
	if p.Gender != "" {
		filter["gender"] = p.Gender
	}
	if p.Ungrouped {
		filter["group_id"] = nil
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

	var mentees []models.Mentee
	if err := cur.All(ctx, &mentees); err != nil {
		return nil, 0, err
	}
	return mentees, total, nil
}

// CountByGroups aggregates active mentee counts for the given groups in
// one query, for list views.
func (s *Store) CountByGroups(ctx context.Context, groupIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	counts := make(map[primitive.ObjectID]int64)
	if len(groupIDs) == 0 {
		return counts, nil
	}

	cur, err := s.c.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"group_id": bson.M{"$in": groupIDs}, "deleted_at": nil}},
		{"$group": bson.M{"_id": "$group_id", "count": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Count int64              `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

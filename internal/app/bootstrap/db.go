// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection used by every store.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("ping MongoDB: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes the stores rely on.
//
// The groups name index is partial over active documents: a trashed
// group keeps its name without blocking a new active group from taking
// it, and restore re-enters the constraint.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	_, err := db.Collection("groups").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"deleted_at": bson.M{"$type": "null"}}),
		},
		{Keys: bson.D{{Key: "mentor_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create groups indexes: %w", err)
	}

	_, err = db.Collection("mentees").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}}},
		{Keys: bson.D{{Key: "full_name_ci", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create mentees indexes: %w", err)
	}

	_, err = db.Collection("mentors").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "full_name_ci", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create mentors index: %w", err)
	}

	_, err = db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "login_id_ci", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}

	_, err = db.Collection("reassignments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "mentee_id", Value: 1}, {Key: "moved_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create reassignments index: %w", err)
	}

	logger.Info("MongoDB indexes ensured")
	return nil
}

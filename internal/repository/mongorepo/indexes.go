package mongorepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"eduportal/internal/domain"
)

// EnsureIndexes creates the lookup indexes. Unique indexes are partial so
// legacy documents without the field do not collide. A failure to build
// one (duplicate legacy data) is logged and does not stop startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	specs := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{
			collection: domain.Lead{}.CollectionName(),
			model: mongo.IndexModel{
				Keys: bson.D{{Key: "id", Value: 1}},
				Options: options.Index().
					SetName("lead_numeric_id").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"id": bson.M{"$exists": true}}),
			},
		},
		{
			collection: domain.Lead{}.CollectionName(),
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "phone", Value: 1}},
				Options: options.Index().SetName("lead_phone"),
			},
		},
		{
			collection: domain.Counselor{}.CollectionName(),
			model: mongo.IndexModel{
				Keys: bson.D{{Key: "username", Value: 1}},
				Options: options.Index().
					SetName("counselor_username").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"username": bson.M{"$exists": true}}),
			},
		},
	}

	for _, s := range specs {
		_, err := db.Collection(s.collection).Indexes().CreateOne(ctx, s.model)
		if err == nil {
			continue
		}
		if mongo.IsDuplicateKeyError(err) {
			log.Warn("index not created, existing documents violate it",
				zap.String("collection", s.collection),
				zap.Error(err))
			continue
		}
		return fmt.Errorf("create index on %s: %w", s.collection, err)
	}
	return nil
}

package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eduportal/internal/domain"
)

type LeadRepository struct {
	*Collection[domain.Lead, *domain.Lead]
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{Collection: NewCollection[domain.Lead](db)}
}

func (r *LeadRepository) GetByNumericID(ctx context.Context, id int64) (*domain.Lead, error) {
	return findOne[domain.Lead](ctx, r.coll, bson.M{"id": id})
}

// GetByPhone returns the first lead inserted with the phone number.
func (r *LeadRepository) GetByPhone(ctx context.Context, phone string) (*domain.Lead, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findOne[domain.Lead](ctx, r.coll, bson.M{"phone": phone}, opts)
}

// Save $sets the lead's fields if the stored version is unchanged and
// bumps the version. Documents written before versioning count as 0.
func (r *LeadRepository) Save(ctx context.Context, lead *domain.Lead) error {
	next := *lead
	next.Version = lead.Version + 1

	doc, err := toDocument(&next)
	if err != nil {
		return err
	}
	delete(doc, "_id")

	filter := bson.M{"_id": idValue(lead.ID)}
	if lead.Version == 0 {
		filter["$or"] = bson.A{
			bson.M{"version": bson.M{"$exists": false}},
			bson.M{"version": 0},
		}
	} else {
		filter["version"] = lead.Version
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": idValue(lead.ID)})
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrVersionConflict
	}

	lead.Version = next.Version
	return nil
}

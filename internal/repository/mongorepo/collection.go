// Package mongorepo implements the document store on MongoDB. Collection
// names match the ones the existing frontend data was written to.
package mongorepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eduportal/internal/domain"
)

type entityPtr[T any] interface {
	*T
	domain.Entity
}

type Collection[T any, P entityPtr[T]] struct {
	coll *mongo.Collection
}

func NewCollection[T any, P entityPtr[T]](db *mongo.Database) *Collection[T, P] {
	name := P(new(T)).CollectionName()
	return &Collection[T, P]{coll: db.Collection(name)}
}

// List returns every document, newest first by ObjectID.
func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := c.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Collection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	return findOne[T](ctx, c.coll, idFilter(id))
}

func (c *Collection[T, P]) Create(ctx context.Context, item *T) error {
	oid := primitive.NewObjectID()
	P(item).SetRecordID(oid.Hex(), oid.Timestamp().UTC())

	doc, err := toDocument(item)
	if err != nil {
		return err
	}
	doc["_id"] = oid

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

// Replace $sets every field of item, leaving fields it does not know
// about untouched.
func (c *Collection[T, P]) Replace(ctx context.Context, id string, item *T) error {
	P(item).SetRecordID(id, time.Now().UTC())
	doc, err := toDocument(item)
	if err != nil {
		return err
	}
	delete(doc, "_id")

	res, err := c.coll.UpdateOne(ctx, idFilter(id), bson.M{"$set": doc})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrConflict
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *Collection[T, P]) Increment(ctx context.Context, id, field string) error {
	res, err := c.coll.UpdateOne(ctx, idFilter(id), bson.M{"$inc": bson.M{field: 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	var item T
	err := coll.FindOne(ctx, filter, opts...).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// idValue converts a hex string back to the ObjectID the document was
// inserted with. Ids written by other clients may be plain strings.
func idValue(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func idFilter(id string) bson.M {
	return bson.M{"_id": idValue(id)}
}

func toDocument(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

package mongorepo

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"eduportal/internal/domain"
)

type CounselorRepository struct {
	*Collection[domain.Counselor, *domain.Counselor]
}

func NewCounselorRepository(db *mongo.Database) *CounselorRepository {
	return &CounselorRepository{Collection: NewCollection[domain.Counselor](db)}
}

func (r *CounselorRepository) GetByUsername(ctx context.Context, username string) (*domain.Counselor, error) {
	return findOne[domain.Counselor](ctx, r.coll, bson.M{"username": strings.TrimSpace(username)})
}

func (r *CounselorRepository) GetByNumericID(ctx context.Context, id int64) (*domain.Counselor, error) {
	return findOne[domain.Counselor](ctx, r.coll, bson.M{"id": id})
}

package discovery

import (
	"context"

	"foodlink/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore adapts a mongo collection to the Store interface.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Find(ctx context.Context, q Query) ([]models.Mess, int64, error) {
	filter := q.FilterBSON()

	opts := options.Find().
		SetSort(q.SortBSON()).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var messes []models.Mess
	if err := cursor.All(ctx, &messes); err != nil {
		return nil, 0, err
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return messes, total, nil
}

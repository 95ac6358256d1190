// Package mongox holds the MongoDB connection helpers and the aggregation
// pipeline updates behind every like/dislike/save toggle.
package mongox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"travel-service/internal/shared/apperr"
)

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	cl, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cl.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return cl, cl.Database(dbName), nil
}

// ObjectID parses a hex id taken from a path or payload. Malformed ids can
// never match a document, so they surface as NotFound for the named entity.
func ObjectID(hex, entity string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound(entity + " not found")
	}
	return id, nil
}

// NotFound converts mongo.ErrNoDocuments into an apperr NotFound and wraps
// anything else.
func NotFound(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(entity + " not found")
	}
	return fmt.Errorf("%s: %w", entity, err)
}

func IsDuplicateKey(err error) bool { return mongo.IsDuplicateKeyError(err) }

// Page builds find options for newest-first listing.
func Page(limit, offset int) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
}

// OwnerStats counts the documents owned by owner and sums the sizes of their
// liker sets stored in likersField.
func OwnerStats(ctx context.Context, c *mongo.Collection, owner primitive.ObjectID, likersField string) (int64, int64, error) {
	cur, err := c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: owner}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "likes", Value: bson.D{{Key: "$sum", Value: size(likersField)}}},
		}}},
	})
	if err != nil {
		return 0, 0, fmt.Errorf("%s stats: %w", c.Name(), err)
	}
	var rows []struct {
		Count int64 `bson:"count"`
		Likes int64 `bson:"likes"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("decode %s stats: %w", c.Name(), err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Count, rows[0].Likes, nil
}

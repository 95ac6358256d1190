package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travel-service/internal/shared/mongox"
)

type Repository interface {
	Insert(ctx context.Context, n *Notification) error
	// HasRecent reports whether a notification with the same recipient,
	// actor, kind and post exists at or after since.
	HasRecent(ctx context.Context, recipient, actor primitive.ObjectID, kind Kind, rel Related, since time.Time) (bool, error)
	List(ctx context.Context, recipient primitive.ObjectID, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID) (int64, error)
}

type mongoRepo struct{ c *mongo.Collection }

func NewRepository(db *mongo.Database) Repository {
	return &mongoRepo{c: db.Collection("notifications")}
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("notifications").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipientId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{
			{Key: "recipientId", Value: 1},
			{Key: "actorId", Value: 1},
			{Key: "kind", Value: 1},
			{Key: "postId", Value: 1},
			{Key: "createdAt", Value: -1},
		}},
	})
	return err
}

func (r *mongoRepo) Insert(ctx context.Context, n *Notification) error {
	res, err := r.c.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	n.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoRepo) HasRecent(ctx context.Context, recipient, actor primitive.ObjectID, kind Kind, rel Related, since time.Time) (bool, error) {
	filter := bson.M{
		"recipientId": recipient,
		"actorId":     actor,
		"kind":        kind,
		"createdAt":   bson.M{"$gte": since},
	}
	if rel.PostID != nil {
		filter["postId"] = *rel.PostID
	} else {
		filter["postId"] = nil
	}
	err := r.c.FindOne(ctx, filter,
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetProjection(bson.M{"_id": 1}),
	).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find recent notification: %w", err)
	}
	return true, nil
}

func (r *mongoRepo) List(ctx context.Context, recipient primitive.ObjectID, limit int) ([]Notification, error) {
	cur, err := r.c.Find(ctx, bson.M{"recipientId": recipient}, mongox.Page(limit, 0))
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	out := []Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return out, nil
}

func (r *mongoRepo) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	return r.c.CountDocuments(ctx, bson.M{"recipientId": recipient, "read": false})
}

func (r *mongoRepo) Get(ctx context.Context, id primitive.ObjectID) (*Notification, error) {
	var n Notification
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, mongox.NotFound(err, "notification")
	}
	return &n, nil
}

func (r *mongoRepo) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	return err
}

func (r *mongoRepo) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	res, err := r.c.UpdateMany(ctx,
		bson.M{"recipientId": recipient, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return res.ModifiedCount, nil
}

package guide

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travel-service/internal/shared/mongox"
)

type Repository interface {
	Insert(ctx context.Context, g *Guide) error
	Get(ctx context.Context, id primitive.ObjectID) (*Guide, error)
	// List returns newest first; a zero owner lists every guide.
	List(ctx context.Context, owner primitive.ObjectID, limit, offset int) ([]Guide, error)
	ToggleLike(ctx context.Context, id, actor primitive.ObjectID) (*Guide, error)
	ToggleDislike(ctx context.Context, id, actor primitive.ObjectID) (*Guide, error)
	Delete(ctx context.Context, id, owner primitive.ObjectID) error
	OwnerStats(ctx context.Context, owner primitive.ObjectID) (count, likes int64, err error)
}

type mongoRepo struct {
	c   *mongo.Collection
	now func() time.Time
}

func NewRepository(db *mongo.Database) Repository {
	return &mongoRepo{c: db.Collection("guides"), now: time.Now}
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("guides").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *mongoRepo) Insert(ctx context.Context, g *Guide) error {
	res, err := r.c.InsertOne(ctx, g)
	if err != nil {
		return fmt.Errorf("insert guide: %w", err)
	}
	g.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoRepo) Get(ctx context.Context, id primitive.ObjectID) (*Guide, error) {
	var g Guide
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return nil, mongox.NotFound(err, "guide")
	}
	return &g, nil
}

func (r *mongoRepo) List(ctx context.Context, owner primitive.ObjectID, limit, offset int) ([]Guide, error) {
	filter := bson.M{}
	if !owner.IsZero() {
		filter["userId"] = owner
	}
	cur, err := r.c.Find(ctx, filter, mongox.Page(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("list guides: %w", err)
	}
	out := []Guide{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode guides: %w", err)
	}
	return out, nil
}

func (r *mongoRepo) toggle(ctx context.Context, id primitive.ObjectID, upd mongo.Pipeline) (*Guide, error) {
	var g Guide
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&g)
	if err != nil {
		return nil, mongox.NotFound(err, "guide")
	}
	return &g, nil
}

func (r *mongoRepo) ToggleLike(ctx context.Context, id, actor primitive.ObjectID) (*Guide, error) {
	return r.toggle(ctx, id, mongox.ToggleExclusive("likedBy", "likes", "dislikedBy", "dislikes", actor, r.now().UTC()))
}

func (r *mongoRepo) ToggleDislike(ctx context.Context, id, actor primitive.ObjectID) (*Guide, error) {
	return r.toggle(ctx, id, mongox.ToggleExclusive("dislikedBy", "dislikes", "likedBy", "likes", actor, r.now().UTC()))
}

func (r *mongoRepo) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id, "userId": owner})
	if err != nil {
		return fmt.Errorf("delete guide: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongox.NotFound(mongo.ErrNoDocuments, "guide")
	}
	return nil
}

func (r *mongoRepo) OwnerStats(ctx context.Context, owner primitive.ObjectID) (int64, int64, error) {
	return mongox.OwnerStats(ctx, r.c, owner, "likedBy")
}

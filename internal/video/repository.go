package video

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travel-service/internal/interaction"
	"travel-service/internal/shared/mongox"
)

type Repository interface {
	Insert(ctx context.Context, v *Video) error
	Get(ctx context.Context, id primitive.ObjectID) (*Video, error)
	// List returns newest first; a zero owner lists every video.
	List(ctx context.Context, owner primitive.ObjectID, limit, offset int) ([]Video, error)
	ToggleLike(ctx context.Context, id, actor primitive.ObjectID) (*Video, error)
	PushComment(ctx context.Context, id primitive.ObjectID, c interaction.Comment) (*Video, error)
	PullComment(ctx context.Context, id, commentID primitive.ObjectID) (*Video, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) (*Video, error)
	Delete(ctx context.Context, id, owner primitive.ObjectID) error
	OwnerStats(ctx context.Context, owner primitive.ObjectID) (count, likes int64, err error)
}

type mongoRepo struct {
	c   *mongo.Collection
	now func() time.Time
}

func NewRepository(db *mongo.Database) Repository {
	return &mongoRepo{c: db.Collection("videos"), now: time.Now}
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("videos").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "views", Value: -1}}},
	})
	return err
}

func (r *mongoRepo) Insert(ctx context.Context, v *Video) error {
	res, err := r.c.InsertOne(ctx, v)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	v.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoRepo) Get(ctx context.Context, id primitive.ObjectID) (*Video, error) {
	var v Video
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, mongox.NotFound(err, "video")
	}
	return &v, nil
}

func (r *mongoRepo) List(ctx context.Context, owner primitive.ObjectID, limit, offset int) ([]Video, error) {
	filter := bson.M{}
	if !owner.IsZero() {
		filter["userId"] = owner
	}
	cur, err := r.c.Find(ctx, filter, mongox.Page(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	out := []Video{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}
	return out, nil
}

func (r *mongoRepo) update(ctx context.Context, filter bson.M, upd any, entity string) (*Video, error) {
	var v Video
	err := r.c.FindOneAndUpdate(ctx, filter, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&v)
	if err != nil {
		return nil, mongox.NotFound(err, entity)
	}
	return &v, nil
}

func (r *mongoRepo) ToggleLike(ctx context.Context, id, actor primitive.ObjectID) (*Video, error) {
	return r.update(ctx, bson.M{"_id": id}, mongox.Toggle("likes", "likeCount", actor, r.now().UTC()), "video")
}

func (r *mongoRepo) PushComment(ctx context.Context, id primitive.ObjectID, c interaction.Comment) (*Video, error) {
	return r.update(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"comments": c},
		"$set":  bson.M{"updatedAt": r.now().UTC()},
	}, "video")
}

func (r *mongoRepo) PullComment(ctx context.Context, id, commentID primitive.ObjectID) (*Video, error) {
	return r.update(ctx, bson.M{"_id": id, "comments._id": commentID}, bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
		"$set":  bson.M{"updatedAt": r.now().UTC()},
	}, "comment")
}

// IncrementViews leaves updatedAt alone; a view is not an edit.
func (r *mongoRepo) IncrementViews(ctx context.Context, id primitive.ObjectID) (*Video, error) {
	return r.update(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}}, "video")
}

func (r *mongoRepo) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id, "userId": owner})
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongox.NotFound(mongo.ErrNoDocuments, "video")
	}
	return nil
}

func (r *mongoRepo) OwnerStats(ctx context.Context, owner primitive.ObjectID) (int64, int64, error) {
	return mongox.OwnerStats(ctx, r.c, owner, "likes")
}

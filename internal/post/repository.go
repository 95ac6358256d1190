package post

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

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	OwnerID primitive.ObjectID
	SavedBy primitive.ObjectID
}

type Repository interface {
	Insert(ctx context.Context, p *Post) error
	Get(ctx context.Context, id primitive.ObjectID) (*Post, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]Post, error)
	ToggleLike(ctx context.Context, id, actor primitive.ObjectID) (*Post, error)
	ToggleSave(ctx context.Context, id, actor primitive.ObjectID) (*Post, error)
	PushComment(ctx context.Context, id primitive.ObjectID, c interaction.Comment) (*Post, error)
	PullComment(ctx context.Context, id, commentID primitive.ObjectID) (*Post, error)
	// Delete removes the post only while owner still owns it.
	Delete(ctx context.Context, id, owner primitive.ObjectID) error
	OwnerStats(ctx context.Context, owner primitive.ObjectID) (count, likes int64, err error)
	PostImages(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

type mongoRepo struct {
	c   *mongo.Collection
	now func() time.Time
}

func NewRepository(db *mongo.Database) Repository {
	return &mongoRepo{c: db.Collection("posts"), now: time.Now}
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("posts").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "savedBy", Value: 1}}},
	})
	return err
}

var after = options.FindOneAndUpdate().SetReturnDocument(options.After)

func (r *mongoRepo) Insert(ctx context.Context, p *Post) error {
	res, err := r.c.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoRepo) Get(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	var p Post
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mongox.NotFound(err, "post")
	}
	return &p, nil
}

func (r *mongoRepo) List(ctx context.Context, f Filter, limit, offset int) ([]Post, error) {
	filter := bson.M{}
	if !f.OwnerID.IsZero() {
		filter["userId"] = f.OwnerID
	}
	if !f.SavedBy.IsZero() {
		filter["savedBy"] = f.SavedBy
	}
	cur, err := r.c.Find(ctx, filter, mongox.Page(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	out := []Post{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return out, nil
}

func (r *mongoRepo) update(ctx context.Context, filter bson.M, upd any) (*Post, error) {
	var p Post
	if err := r.c.FindOneAndUpdate(ctx, filter, upd, after).Decode(&p); err != nil {
		return nil, mongox.NotFound(err, "post")
	}
	return &p, nil
}

func (r *mongoRepo) ToggleLike(ctx context.Context, id, actor primitive.ObjectID) (*Post, error) {
	return r.update(ctx, bson.M{"_id": id}, mongox.Toggle("likes", "likeCount", actor, r.now().UTC()))
}

func (r *mongoRepo) ToggleSave(ctx context.Context, id, actor primitive.ObjectID) (*Post, error) {
	return r.update(ctx, bson.M{"_id": id}, mongox.Toggle("savedBy", "", actor, r.now().UTC()))
}

func (r *mongoRepo) PushComment(ctx context.Context, id primitive.ObjectID, c interaction.Comment) (*Post, error) {
	return r.update(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"comments": c},
		"$set":  bson.M{"updatedAt": r.now().UTC()},
	})
}

// PullComment fails with NotFound when the post or the comment is gone.
func (r *mongoRepo) PullComment(ctx context.Context, id, commentID primitive.ObjectID) (*Post, error) {
	var p Post
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id, "comments._id": commentID}, bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
		"$set":  bson.M{"updatedAt": r.now().UTC()},
	}, after).Decode(&p)
	if err != nil {
		return nil, mongox.NotFound(err, "comment")
	}
	return &p, nil
}

func (r *mongoRepo) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id, "userId": owner})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongox.NotFound(mongo.ErrNoDocuments, "post")
	}
	return nil
}

func (r *mongoRepo) OwnerStats(ctx context.Context, owner primitive.ObjectID) (int64, int64, error) {
	return mongox.OwnerStats(ctx, r.c, owner, "likes")
}

func (r *mongoRepo) PostImages(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"image": 1}))
	if err != nil {
		return nil, fmt.Errorf("find post images: %w", err)
	}
	var rows []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Image string             `bson:"image"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode post images: %w", err)
	}
	for _, row := range rows {
		out[row.ID] = row.Image
	}
	return out, nil
}

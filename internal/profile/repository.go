package profile

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
	Init(ctx context.Context, userID primitive.ObjectID) error
	GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*Profile, error)
	Update(ctx context.Context, userID primitive.ObjectID, upd Update) (*Profile, error)
}

type mongoRepo struct{ c *mongo.Collection }

func NewRepository(db *mongo.Database) Repository {
	return &mongoRepo{c: db.Collection("profiles")}
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("profiles").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// defaults lists the fields written when the profile document is created,
// minus the ones the same update also sets.
func defaults(userID primitive.ObjectID, now time.Time, set bson.M) bson.M {
	d := bson.M{
		"userId":      userID,
		"bio":         "",
		"location":    "",
		"socialLinks": bson.M{},
		"interests":   bson.A{},
		"createdAt":   now,
		"updatedAt":   now,
	}
	for k := range set {
		delete(d, k)
	}
	return d
}

func (r *mongoRepo) upsert(ctx context.Context, userID primitive.ObjectID, set bson.M) (*Profile, error) {
	now := time.Now().UTC()
	update := bson.M{"$setOnInsert": defaults(userID, now, set)}
	if len(set) > 0 {
		update["$set"] = set
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var p Profile
	err := r.c.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&p)
	if mongox.IsDuplicateKey(err) {
		// lost a concurrent upsert race; the document exists now
		err = r.c.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&p)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return &p, nil
}

func (r *mongoRepo) Init(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.upsert(ctx, userID, nil)
	return err
}

func (r *mongoRepo) GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*Profile, error) {
	return r.upsert(ctx, userID, nil)
}

func (r *mongoRepo) Update(ctx context.Context, userID primitive.ObjectID, upd Update) (*Profile, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.SocialLinks != nil {
		set["socialLinks"] = upd.SocialLinks
	}
	if upd.Interests != nil {
		set["interests"] = upd.Interests
	}
	return r.upsert(ctx, userID, set)
}

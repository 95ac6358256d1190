package user

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travel-service/internal/shared/apperr"
	"travel-service/internal/shared/mongox"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error)
	Update(ctx context.Context, id primitive.ObjectID, upd Update) (*User, error)
}

type mongoRepo struct{ c *mongo.Collection }

func NewRepository(db *mongo.Database) Repository {
	return &mongoRepo{c: db.Collection("users")}
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

func (r *mongoRepo) Create(ctx context.Context, u *User) error {
	res, err := r.c.InsertOne(ctx, u)
	if mongox.IsDuplicateKey(err) {
		return apperr.Validation("email or username already in use")
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var u User
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, mongox.NotFound(err, "user")
	}
	return &u, nil
}

func (r *mongoRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.c.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, mongox.NotFound(err, "user")
	}
	return &u, nil
}

func (r *mongoRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"passwordHash": 0}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var out []User
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return out, nil
}

func (r *mongoRepo) Update(ctx context.Context, id primitive.ObjectID, upd Update) (*User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.FullName != nil {
		set["fullName"] = *upd.FullName
	}
	if upd.Username != nil {
		set["username"] = *upd.Username
	}
	if upd.ProfileImage != nil {
		set["profileImage"] = *upd.ProfileImage
	}
	var u User
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if mongox.IsDuplicateKey(err) {
		return nil, apperr.Validation("username already taken")
	}
	if err != nil {
		return nil, mongox.NotFound(err, "user")
	}
	return &u, nil
}

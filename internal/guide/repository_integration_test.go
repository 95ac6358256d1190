//go:build integration

package guide

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-service/internal/testinfra"
)

func TestMongoToggleExclusive(t *testing.T) {
	ctx := context.Background()
	db := testinfra.MongoDB(t)
	require.NoError(t, EnsureIndexes(ctx, db))
	repo := NewRepository(db)

	owner, u := primitive.NewObjectID(), primitive.NewObjectID()
	g := &Guide{UserID: owner, Text: "tip", Category: DefaultCategory, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Insert(ctx, g))

	got, err := repo.ToggleDislike(ctx, g.ID, u)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{u}, got.DislikedBy)
	assert.Equal(t, 1, got.Dislikes)

	got, err = repo.ToggleLike(ctx, g.ID, u)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{u}, got.LikedBy)
	assert.Empty(t, got.DislikedBy)
	assert.Equal(t, 1, got.Likes)
	assert.Equal(t, 0, got.Dislikes)

	got, err = repo.ToggleLike(ctx, g.ID, u)
	require.NoError(t, err)
	assert.Empty(t, got.LikedBy)
	assert.Equal(t, 0, got.Likes)

	raw := db.Collection("guides").FindOne(ctx, map[string]any{"_id": g.ID, "_toggled": map[string]any{"$exists": true}})
	assert.Error(t, raw.Err(), "temporary field must not persist")

	_, err = repo.ToggleLike(ctx, g.ID, u)
	require.NoError(t, err)
	count, likes, err := repo.OwnerStats(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.EqualValues(t, 1, likes)
}

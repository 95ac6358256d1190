package interaction

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-service/internal/shared/apperr"
)

func TestToggleTwiceRestores(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	start := []primitive.ObjectID{a}

	once, added := Toggle(start, b)
	assert.True(t, added)
	assert.Equal(t, []primitive.ObjectID{a, b}, once)

	twice, added := Toggle(once, b)
	assert.False(t, added)
	assert.Equal(t, start, twice)
}

func TestToggleKeepsSetUnique(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	rng := rand.New(rand.NewSource(7))
	var set []primitive.ObjectID
	for i := 0; i < 200; i++ {
		set, _ = Toggle(set, ids[rng.Intn(len(ids))])
		seen := map[primitive.ObjectID]bool{}
		for _, x := range set {
			require.False(t, seen[x], "duplicate after %d toggles", i)
			seen[x] = true
		}
	}
}

func TestToggleDoesNotAliasInput(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	in := make([]primitive.ObjectID, 1, 4)
	in[0] = a
	out, _ := Toggle(in, b)
	out[0] = b
	assert.Equal(t, a, in[0])
}

func TestNewComment(t *testing.T) {
	actor := primitive.NewObjectID()
	now := time.Now()

	c, err := NewComment(actor, "  lovely spot  ", 0, now)
	require.NoError(t, err)
	assert.Equal(t, "lovely spot", c.Text)
	assert.Equal(t, actor, c.UserID)
	assert.False(t, c.ID.IsZero())

	_, err = NewComment(actor, "   ", 0, now)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = NewComment(actor, strings.Repeat("é", 501), 500, now)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = NewComment(actor, strings.Repeat("é", 500), 500, now)
	assert.NoError(t, err)
}

func TestCanDeleteComment(t *testing.T) {
	owner, author, stranger := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	c, err := NewComment(author, "hi", 0, time.Now())
	require.NoError(t, err)
	comments := []Comment{c}

	assert.NoError(t, CanDeleteComment(comments, c.ID, owner, author))
	assert.NoError(t, CanDeleteComment(comments, c.ID, owner, owner))
	assert.ErrorIs(t, CanDeleteComment(comments, c.ID, owner, stranger), apperr.ErrForbidden)
	assert.ErrorIs(t, CanDeleteComment(comments, primitive.NewObjectID(), owner, owner), apperr.ErrNotFound)
}

func TestCanDelete(t *testing.T) {
	owner := primitive.NewObjectID()
	assert.NoError(t, CanDelete(owner, owner, "post"))
	assert.ErrorIs(t, CanDelete(owner, primitive.NewObjectID(), "post"), apperr.ErrForbidden)
}

func TestCommentViewsFallBackToUnknown(t *testing.T) {
	c, err := NewComment(primitive.NewObjectID(), "hi", 0, time.Now())
	require.NoError(t, err)
	views := CommentViews([]Comment{c}, nil)
	require.Len(t, views, 1)
	assert.Equal(t, "unknown", views[0].Author.Username)
}

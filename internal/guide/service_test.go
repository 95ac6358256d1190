package guide

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-service/internal/interaction"
	"travel-service/internal/shared/apperr"
	"travel-service/internal/shared/httpx"
	"travel-service/internal/user"
)

type memRepo struct {
	mu     sync.Mutex
	guides map[primitive.ObjectID]*Guide
}

func newMemRepo() *memRepo { return &memRepo{guides: map[primitive.ObjectID]*Guide{}} }

func (m *memRepo) Insert(_ context.Context, g *Guide) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = primitive.NewObjectID()
	cp := *g
	m.guides[g.ID] = &cp
	return nil
}

func (m *memRepo) Get(_ context.Context, id primitive.ObjectID) (*Guide, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guides[id]
	if !ok {
		return nil, apperr.NotFound("guide not found")
	}
	cp := *g
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, owner primitive.ObjectID, limit, offset int) ([]Guide, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Guide
	for _, g := range m.guides {
		if owner.IsZero() || g.UserID == owner {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []Guide{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) mutate(id primitive.ObjectID, fn func(*Guide)) (*Guide, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guides[id]
	if !ok {
		return nil, apperr.NotFound("guide not found")
	}
	fn(g)
	cp := *g
	return &cp, nil
}

func (m *memRepo) ToggleLike(_ context.Context, id, actor primitive.ObjectID) (*Guide, error) {
	return m.mutate(id, func(g *Guide) { g.ToggleLike(actor) })
}

func (m *memRepo) ToggleDislike(_ context.Context, id, actor primitive.ObjectID) (*Guide, error) {
	return m.mutate(id, func(g *Guide) { g.ToggleDislike(actor) })
}

func (m *memRepo) Delete(_ context.Context, id, owner primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guides[id]
	if !ok || g.UserID != owner {
		return apperr.NotFound("guide not found")
	}
	delete(m.guides, id)
	return nil
}

func (m *memRepo) OwnerStats(_ context.Context, owner primitive.ObjectID) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count, likes int64
	for _, g := range m.guides {
		if g.UserID == owner {
			count++
			likes += int64(len(g.LikedBy))
		}
	}
	return count, likes, nil
}

type directory map[primitive.ObjectID]user.Summary

func (d directory) Summaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]user.Summary, error) {
	out := map[primitive.ObjectID]user.Summary{}
	for _, id := range ids {
		if s, ok := d[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

type downDirectory struct{}

func (downDirectory) Summaries(context.Context, []primitive.ObjectID) (map[primitive.ObjectID]user.Summary, error) {
	return nil, errors.New("users collection unavailable")
}

func newService() (Service, primitive.ObjectID) {
	owner := primitive.NewObjectID()
	users := directory{owner: {ID: owner.Hex(), Username: "freya", ProfileImage: "https://img.example/f.jpg"}}
	return NewService(newMemRepo(), users, nil), owner
}

func TestCreateDefaults(t *testing.T) {
	svc, owner := newService()
	v, err := svc.Create(context.Background(), owner.Hex(), CreateRequest{Text: " Take the night train "})
	require.NoError(t, err)

	assert.Equal(t, "Take the night train", v.Text)
	assert.Equal(t, DefaultCategory, v.Category)
	assert.Equal(t, []string{}, v.Tags)
	assert.Equal(t, "freya", v.Username)
	assert.Equal(t, "https://img.example/f.jpg", v.UserImage)

	_, err = svc.Create(context.Background(), owner.Hex(), CreateRequest{Text: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

// Scenario: U3 dislikes, then likes. The like replaces the dislike.
func TestDislikeThenLike(t *testing.T) {
	svc, owner := newService()
	ctx := context.Background()
	g, err := svc.Create(ctx, owner.Hex(), CreateRequest{Text: "tip"})
	require.NoError(t, err)
	u3 := primitive.NewObjectID().Hex()

	v, err := svc.ToggleDislike(ctx, g.ID, u3)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Likes)
	assert.Equal(t, 1, v.Dislikes)
	assert.Equal(t, []string{u3}, v.DislikedBy)

	v, err = svc.ToggleLike(ctx, g.ID, u3)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Likes)
	assert.Equal(t, 0, v.Dislikes)
	assert.Equal(t, []string{u3}, v.LikedBy)
	assert.Empty(t, v.DislikedBy)
}

func TestLikeAndDislikeNeverOverlap(t *testing.T) {
	actors := make([]primitive.ObjectID, 4)
	for i := range actors {
		actors[i] = primitive.NewObjectID()
	}
	rng := rand.New(rand.NewSource(42))
	g := &Guide{}
	for i := 0; i < 500; i++ {
		a := actors[rng.Intn(len(actors))]
		if rng.Intn(2) == 0 {
			g.ToggleLike(a)
		} else {
			g.ToggleDislike(a)
		}
		for _, liker := range g.LikedBy {
			require.False(t, interaction.Contains(g.DislikedBy, liker), "step %d", i)
		}
		require.Equal(t, len(g.LikedBy), g.Likes)
		require.Equal(t, len(g.DislikedBy), g.Dislikes)
	}
}

func TestToggleLikeTwiceRestores(t *testing.T) {
	a := primitive.NewObjectID()
	g := &Guide{DislikedBy: []primitive.ObjectID{a}, Dislikes: 1}

	assert.True(t, g.ToggleLike(a))
	assert.False(t, g.ToggleLike(a))
	assert.Empty(t, g.LikedBy)
	assert.Equal(t, 0, g.Likes)
	assert.Empty(t, g.DislikedBy)
}

func TestDeleteOwnerOnly(t *testing.T) {
	svc, owner := newService()
	ctx := context.Background()
	g, err := svc.Create(ctx, owner.Hex(), CreateRequest{Text: "tip"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, g.ID, primitive.NewObjectID().Hex()), apperr.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, g.ID, owner.Hex()))
	assert.ErrorIs(t, svc.Delete(ctx, g.ID, owner.Hex()), apperr.ErrNotFound)

	vs, err := svc.ListByUser(ctx, owner.Hex(), 50, 0)
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestHandlerValidation(t *testing.T) {
	svc, owner := newService()
	h := NewHandler(svc)
	r := chi.NewRouter()
	r.Method(http.MethodPost, "/guides", httpx.Wrap(h.Create))
	r.Method(http.MethodGet, "/guides/user/{userId}", httpx.Wrap(h.ListByUser))

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/guides", strings.NewReader(body))
		req = req.WithContext(httpx.WithIdentity(req.Context(), httpx.Identity{UserID: owner.Hex()}))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	long, _ := json.Marshal(map[string]string{"text": strings.Repeat("a", 501)})
	assert.Equal(t, http.StatusBadRequest, post(string(long)).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"text":"ok","location":"`+strings.Repeat("b", 101)+`"}`).Code)
	require.Equal(t, http.StatusCreated, post(`{"text":"ok","tags":["food"]}`).Code)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guides/user/"+owner.Hex(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var vs []View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vs))
	require.Len(t, vs, 1)
	assert.Equal(t, []string{"food"}, vs[0].Tags)
}

func TestToggleSurvivesAuthorLookupFailure(t *testing.T) {
	repo := newMemRepo()
	owner := primitive.NewObjectID()
	g, err := NewService(repo, directory{owner: {ID: owner.Hex(), Username: "freya"}}, nil).
		Create(context.Background(), owner.Hex(), CreateRequest{Text: "Buy the rail pass early"})
	require.NoError(t, err)

	svc := NewService(repo, downDirectory{}, nil)
	actor := primitive.NewObjectID()
	v, err := svc.ToggleDislike(context.Background(), g.ID, actor.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, v.Dislikes)
	assert.Equal(t, "unknown", v.Username)

	v, err = svc.ToggleLike(context.Background(), g.ID, actor.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, v.Likes)
	assert.Equal(t, 0, v.Dislikes)
}

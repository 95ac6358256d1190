package user

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-service/internal/kafka"
	"travel-service/internal/shared/apperr"
	"travel-service/internal/shared/jwt"
)

type memRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]User
}

func newMemRepo() *memRepo { return &memRepo{users: map[primitive.ObjectID]User{}} }

func (m *memRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if x.Email == u.Email || x.Username == u.Username {
			return apperr.Validation("email or username already in use")
		}
	}
	u.ID = primitive.NewObjectID()
	m.users[u.ID] = *u
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id primitive.ObjectID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return &u, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *memRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, id primitive.ObjectID, upd Update) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	if upd.Username != nil {
		for oid, x := range m.users {
			if oid != id && x.Username == *upd.Username {
				return nil, apperr.Validation("username already taken")
			}
		}
		u.Username = *upd.Username
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.ProfileImage != nil {
		u.ProfileImage = *upd.ProfileImage
	}
	m.users[id] = u
	return &u, nil
}

type profileInit struct {
	ids []primitive.ObjectID
	err error
}

func (p *profileInit) Init(_ context.Context, id primitive.ObjectID) error {
	p.ids = append(p.ids, id)
	return p.err
}

func newTestService() (Service, *memRepo, *profileInit, *jwt.Signer) {
	repo := newMemRepo()
	profiles := &profileInit{}
	signer := jwt.NewSigner("test", 0)
	return NewService(repo, signer, profiles, kafka.Noop{}), repo, profiles, signer
}

var alice = RegisterRequest{
	FullName:    "Alice Walker",
	Email:       "Alice@Example.com",
	Username:    "alice",
	Password:    "secret1",
	AccountType: Creator,
}

func TestRegisterIssuesTokenAndProfile(t *testing.T) {
	svc, _, profiles, signer := newTestService()

	res, err := svc.Register(context.Background(), alice)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)
	assert.Equal(t, []primitive.ObjectID{res.User.ID}, profiles.ids)

	claims, err := signer.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.Hex(), claims.UserID)
	assert.Equal(t, "creator", claims.AccountType)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.Register(context.Background(), alice)
	require.NoError(t, err)

	dup := alice
	dup.Username = "alice2"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRegisterSurvivesProfileFailure(t *testing.T) {
	svc, _, profiles, _ := newTestService()
	profiles.err = errors.New("mongo down")

	_, err := svc.Register(context.Background(), alice)
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.Register(context.Background(), alice)
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Username)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.EqualError(t, err, "invalid credentials")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGetInvalidIDIsNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.Get(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateUsernameTaken(t *testing.T) {
	svc, _, _, _ := newTestService()
	a, err := svc.Register(context.Background(), alice)
	require.NoError(t, err)
	bob := alice
	bob.Email, bob.Username = "bob@example.com", "bob"
	_, err = svc.Register(context.Background(), bob)
	require.NoError(t, err)

	taken := "bob"
	_, err = svc.Update(context.Background(), a.User.ID.Hex(), Update{Username: &taken})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	name := "Alice W."
	u, err := svc.Update(context.Background(), a.User.ID.Hex(), Update{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice W.", u.FullName)
	assert.Equal(t, "alice", u.Username)
}

func TestSummariesFillsUnknown(t *testing.T) {
	svc, _, _, _ := newTestService()
	a, err := svc.Register(context.Background(), alice)
	require.NoError(t, err)
	ghost := primitive.NewObjectID()

	got, err := svc.Summaries(context.Background(), []primitive.ObjectID{a.User.ID, ghost, a.User.ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "alice", got[a.User.ID].Username)
	assert.Equal(t, "unknown", got[ghost].Username)
}

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"travel-service/internal/kafka"
	"travel-service/internal/shared/apperr"
	"travel-service/internal/shared/logging"
	"travel-service/internal/shared/mongox"
)

type TokenMaker interface {
	Make(userID, accountType string) (string, error)
}

// ProfileInitializer creates the empty profile that belongs to a new account.
type ProfileInitializer interface {
	Init(ctx context.Context, userID primitive.ObjectID) error
}

// Directory resolves author display data for other packages.
type Directory interface {
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]Summary, error)
}

type Service interface {
	Directory
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Get(ctx context.Context, userID string) (*User, error)
	Update(ctx context.Context, userID string, upd Update) (*User, error)
}

type service struct {
	repo     Repository
	tokens   TokenMaker
	profiles ProfileInitializer
	events   kafka.Publisher
}

func NewService(r Repository, tokens TokenMaker, profiles ProfileInitializer, events kafka.Publisher) Service {
	return &service{repo: r, tokens: tokens, profiles: profiles, events: events}
}

var errBadCredentials = apperr.Validation("invalid credentials")

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("user already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	u := &User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
		AccountType:  req.AccountType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	if err := s.profiles.Init(ctx, u.ID); err != nil {
		// the profile is created lazily on first read as well
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", u.ID.Hex()).Msg("init profile")
	}
	s.events.Publish(ctx, kafka.Event{Type: kafka.EventUserRegistered, EntityID: u.ID.Hex(), ActorID: u.ID.Hex()})
	return s.issue(u)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, errBadCredentials
	}
	return s.issue(u)
}

func (s *service) issue(u *User) (*AuthResponse, error) {
	tok, err := s.tokens.Make(u.ID.Hex(), string(u.AccountType))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResponse{Token: tok, User: u}, nil
}

func (s *service) Get(ctx context.Context, userID string) (*User, error) {
	id, err := mongox.ObjectID(userID, "user")
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, userID string, upd Update) (*User, error) {
	id, err := mongox.ObjectID(userID, "user")
	if err != nil {
		return nil, err
	}
	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		if len(name) < 3 {
			return nil, apperr.Validation("username must be at least 3 characters")
		}
		upd.Username = &name
	}
	return s.repo.Update(ctx, id, upd)
}

// Summaries returns display data for every id; missing accounts map to Unknown.
func (s *service) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]Summary, error) {
	uniq := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	users, err := s.repo.FindByIDs(ctx, uniq)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]Summary, len(uniq))
	for _, id := range uniq {
		out[id] = Unknown(id)
	}
	for i := range users {
		out[users[i].ID] = users[i].Summary()
	}
	return out, nil
}

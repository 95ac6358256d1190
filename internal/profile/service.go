package profile

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"travel-service/internal/shared/mongox"
	"travel-service/internal/user"
)

// StatsSource is a content collection that can count an owner's documents
// and the likes they received.
type StatsSource interface {
	OwnerStats(ctx context.Context, ownerID primitive.ObjectID) (count, likes int64, err error)
}

type Users interface {
	Get(ctx context.Context, userID string) (*user.User, error)
	Update(ctx context.Context, userID string, upd user.Update) (*user.User, error)
}

type Service interface {
	Get(ctx context.Context, userID string) (*View, error)
	Update(ctx context.Context, actorID string, req UpdateRequest) (*UpdateResponse, error)
	Stats(ctx context.Context, ownerID primitive.ObjectID) (Stats, error)
}

type service struct {
	repo   Repository
	users  Users
	posts  StatsSource
	guides StatsSource
	videos StatsSource
}

func NewService(r Repository, users Users, posts, guides, videos StatsSource) Service {
	return &service{repo: r, users: users, posts: posts, guides: guides, videos: videos}
}

func (s *service) Get(ctx context.Context, userID string) (*View, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetOrCreate(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	st, err := s.Stats(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &View{Profile: *p, User: userView(u), Stats: st}, nil
}

func (s *service) Update(ctx context.Context, actorID string, req UpdateRequest) (*UpdateResponse, error) {
	id, err := mongox.ObjectID(actorID, "user")
	if err != nil {
		return nil, err
	}
	u, err := s.users.Update(ctx, actorID, user.Update{
		FullName:     nonEmpty(req.FullName),
		Username:     nonEmpty(req.Username),
		ProfileImage: nonEmpty(req.ProfileImage),
	})
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, id, Update{
		Bio:         req.Bio,
		Location:    req.Location,
		SocialLinks: req.SocialLinks,
		Interests:   req.Interests,
	})
	if err != nil {
		return nil, err
	}
	return &UpdateResponse{User: userView(u), Profile: p}, nil
}

// Stats counts the owner's posts, guides and videos and sums their likes.
func (s *service) Stats(ctx context.Context, ownerID primitive.ObjectID) (Stats, error) {
	var (
		st                    Stats
		postLikes, guideLikes int64
		videoLikes            int64
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.TotalPosts, postLikes, err = s.posts.OwnerStats(ctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		st.TotalGuides, guideLikes, err = s.guides.OwnerStats(ctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		st.TotalVideos, videoLikes, err = s.videos.OwnerStats(ctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	st.TotalLikes = postLikes + guideLikes + videoLikes
	return st, nil
}

// nonEmpty drops empty strings; the user fields are only replaced with
// actual values.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

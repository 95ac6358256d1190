package guide

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-service/internal/interaction"
	"travel-service/internal/kafka"
	"travel-service/internal/metrics"
	"travel-service/internal/shared/apperr"
	"travel-service/internal/shared/logging"
	"travel-service/internal/shared/mongox"
	"travel-service/internal/user"
)

type Service interface {
	Create(ctx context.Context, actorID string, req CreateRequest) (*View, error)
	List(ctx context.Context, limit, offset int) ([]View, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]View, error)
	ToggleLike(ctx context.Context, guideID, actorID string) (*View, error)
	ToggleDislike(ctx context.Context, guideID, actorID string) (*View, error)
	Delete(ctx context.Context, guideID, actorID string) error
}

type service struct {
	repo   Repository
	users  user.Directory
	events kafka.Publisher
	now    func() time.Time
}

func NewService(r Repository, users user.Directory, events kafka.Publisher) Service {
	if events == nil {
		events = kafka.Noop{}
	}
	return &service{repo: r, users: users, events: events, now: time.Now}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateRequest) (*View, error) {
	actor, err := mongox.ObjectID(actorID, "user")
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperr.Validation("guide text is required")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultCategory
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	now := s.now().UTC()
	g := &Guide{
		UserID:       actor,
		Text:         text,
		Location:     strings.TrimSpace(req.Location),
		LocationNote: strings.TrimSpace(req.LocationNote),
		Category:     category,
		Tags:         tags,
		LikedBy:      []primitive.ObjectID{},
		DislikedBy:   []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, g); err != nil {
		return nil, err
	}
	s.publish(ctx, kafka.EventGuideCreated, g, actor)
	return s.view(ctx, g), nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]View, error) {
	return s.list(ctx, primitive.NilObjectID, limit, offset)
}

func (s *service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]View, error) {
	owner, err := mongox.ObjectID(userID, "user")
	if err != nil {
		return nil, err
	}
	return s.list(ctx, owner, limit, offset)
}

func (s *service) list(ctx context.Context, owner primitive.ObjectID, limit, offset int) ([]View, error) {
	guides, err := s.repo.List(ctx, owner, limit, offset)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(guides))
	for i := range guides {
		ids = append(ids, guides[i].UserID)
	}
	authors, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(guides))
	for i := range guides {
		out = append(out, guides[i].view(summary(authors, guides[i].UserID)))
	}
	return out, nil
}

func (s *service) ToggleLike(ctx context.Context, guideID, actorID string) (*View, error) {
	id, actor, err := ids(guideID, actorID)
	if err != nil {
		return nil, err
	}
	g, err := s.repo.ToggleLike(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if interaction.Contains(g.LikedBy, actor) {
		metrics.RecordInteraction("guide", "like")
		s.publish(ctx, kafka.EventGuideLiked, g, actor)
	} else {
		metrics.RecordInteraction("guide", "unlike")
	}
	return s.view(ctx, g), nil
}

func (s *service) ToggleDislike(ctx context.Context, guideID, actorID string) (*View, error) {
	id, actor, err := ids(guideID, actorID)
	if err != nil {
		return nil, err
	}
	g, err := s.repo.ToggleDislike(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if interaction.Contains(g.DislikedBy, actor) {
		metrics.RecordInteraction("guide", "dislike")
		s.publish(ctx, kafka.EventGuideDisliked, g, actor)
	} else {
		metrics.RecordInteraction("guide", "undislike")
	}
	return s.view(ctx, g), nil
}

func (s *service) Delete(ctx context.Context, guideID, actorID string) error {
	id, actor, err := ids(guideID, actorID)
	if err != nil {
		return err
	}
	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := interaction.CanDelete(g.UserID, actor, "guide"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, actor); err != nil {
		return err
	}
	s.publish(ctx, kafka.EventGuideDeleted, g, actor)
	return nil
}

func (s *service) publish(ctx context.Context, t kafka.EventType, g *Guide, actor primitive.ObjectID) {
	s.events.Publish(ctx, kafka.Event{
		Type:     t,
		EntityID: g.ID.Hex(),
		ActorID:  actor.Hex(),
		OwnerID:  g.UserID.Hex(),
		At:       s.now().UTC(),
	})
}

func (s *service) view(ctx context.Context, g *Guide) *View {
	authors, err := s.users.Summaries(ctx, []primitive.ObjectID{g.UserID})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("guide_id", g.ID.Hex()).Msg("load guide author")
	}
	v := g.view(summary(authors, g.UserID))
	return &v
}

func summary(m map[primitive.ObjectID]user.Summary, id primitive.ObjectID) user.Summary {
	if s, ok := m[id]; ok {
		return s
	}
	return user.Unknown(id)
}

func ids(guideID, actorID string) (primitive.ObjectID, primitive.ObjectID, error) {
	id, err := mongox.ObjectID(guideID, "guide")
	if err != nil {
		return id, id, err
	}
	actor, err := mongox.ObjectID(actorID, "user")
	return id, actor, err
}

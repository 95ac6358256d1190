package post

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-service/internal/interaction"
	"travel-service/internal/kafka"
	"travel-service/internal/metrics"
	"travel-service/internal/notification"
	"travel-service/internal/shared/logging"
	"travel-service/internal/shared/mongox"
	"travel-service/internal/user"
)

// Notifier is the slice of the notification service posts depend on.
type Notifier interface {
	Create(ctx context.Context, recipient, actor primitive.ObjectID, kind notification.Kind, rel notification.Related) (*notification.Notification, error)
}

// Media resolves uploaded images; media.Service satisfies it.
type Media interface {
	Resolve(ctx context.Context, ownerID, prefix, value string) (u, key string, err error)
	Remove(ctx context.Context, key string)
}

type Service interface {
	Create(ctx context.Context, actorID string, req CreateRequest) (*View, error)
	Get(ctx context.Context, postID string) (*View, error)
	List(ctx context.Context, limit, offset int) ([]View, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]View, error)
	ListSaved(ctx context.Context, actorID string, limit, offset int) ([]View, error)
	ToggleLike(ctx context.Context, postID, actorID string) (*View, error)
	ToggleSave(ctx context.Context, postID, actorID string) (*View, error)
	AddComment(ctx context.Context, postID, actorID, text string) (*View, error)
	DeleteComment(ctx context.Context, postID, commentID, actorID string) (*View, error)
	Delete(ctx context.Context, postID, actorID string) error
}

type service struct {
	repo     Repository
	users    user.Directory
	notifier Notifier
	media    Media
	events   kafka.Publisher
	now      func() time.Time
}

func NewService(r Repository, users user.Directory, n Notifier, m Media, events kafka.Publisher) Service {
	if events == nil {
		events = kafka.Noop{}
	}
	return &service{repo: r, users: users, notifier: n, media: m, events: events, now: time.Now}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateRequest) (*View, error) {
	actor, err := mongox.ObjectID(actorID, "user")
	if err != nil {
		return nil, err
	}
	image, key, err := s.media.Resolve(ctx, actorID, "posts", req.Image)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p := &Post{
		UserID:      actor,
		Image:       image,
		MediaKey:    key,
		Location:    interaction.DefaultLocation(),
		Weather:     interaction.DefaultWeather(),
		Description: req.Description,
		TravelTips:  req.TravelTips,
		Likes:       []primitive.ObjectID{},
		SavedBy:     []primitive.ObjectID{},
		Comments:    []interaction.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.Weather != nil {
		p.Weather = *req.Weather
	}
	if p.TravelTips == nil {
		p.TravelTips = []string{}
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		s.media.Remove(ctx, key)
		return nil, err
	}
	s.publish(ctx, kafka.EventPostCreated, p, actor)
	return s.view(ctx, p), nil
}

func (s *service) Get(ctx context.Context, postID string) (*View, error) {
	id, err := mongox.ObjectID(postID, "post")
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p), nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]View, error) {
	return s.list(ctx, Filter{}, limit, offset)
}

func (s *service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]View, error) {
	owner, err := mongox.ObjectID(userID, "user")
	if err != nil {
		return nil, err
	}
	return s.list(ctx, Filter{OwnerID: owner}, limit, offset)
}

func (s *service) ListSaved(ctx context.Context, actorID string, limit, offset int) ([]View, error) {
	actor, err := mongox.ObjectID(actorID, "user")
	if err != nil {
		return nil, err
	}
	return s.list(ctx, Filter{SavedBy: actor}, limit, offset)
}

func (s *service) list(ctx context.Context, f Filter, limit, offset int) ([]View, error) {
	posts, err := s.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}
	var ids []primitive.ObjectID
	for i := range posts {
		ids = append(ids, posts[i].authorIDs()...)
	}
	authors, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(posts))
	for i := range posts {
		out = append(out, posts[i].view(authors))
	}
	return out, nil
}

func (s *service) ToggleLike(ctx context.Context, postID, actorID string) (*View, error) {
	id, actor, err := ids(postID, actorID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.ToggleLike(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if interaction.Contains(p.Likes, actor) {
		metrics.RecordInteraction("post", "like")
		s.publish(ctx, kafka.EventPostLiked, p, actor)
		s.notify(ctx, p, actor, notification.KindLike)
	} else {
		metrics.RecordInteraction("post", "unlike")
		s.publish(ctx, kafka.EventPostUnliked, p, actor)
	}
	return s.view(ctx, p), nil
}

func (s *service) ToggleSave(ctx context.Context, postID, actorID string) (*View, error) {
	id, actor, err := ids(postID, actorID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.ToggleSave(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if interaction.Contains(p.SavedBy, actor) {
		metrics.RecordInteraction("post", "save")
		s.publish(ctx, kafka.EventPostSaved, p, actor)
	} else {
		metrics.RecordInteraction("post", "unsave")
		s.publish(ctx, kafka.EventPostUnsaved, p, actor)
	}
	return s.view(ctx, p), nil
}

func (s *service) AddComment(ctx context.Context, postID, actorID, text string) (*View, error) {
	id, actor, err := ids(postID, actorID)
	if err != nil {
		return nil, err
	}
	c, err := interaction.NewComment(actor, text, 0, s.now())
	if err != nil {
		return nil, err
	}
	p, err := s.repo.PushComment(ctx, id, c)
	if err != nil {
		return nil, err
	}
	metrics.RecordInteraction("post", "comment")
	s.publish(ctx, kafka.EventCommentAdded, p, actor)
	s.notify(ctx, p, actor, notification.KindComment)
	return s.view(ctx, p), nil
}

func (s *service) DeleteComment(ctx context.Context, postID, commentID, actorID string) (*View, error) {
	id, actor, err := ids(postID, actorID)
	if err != nil {
		return nil, err
	}
	cid, err := mongox.ObjectID(commentID, "comment")
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := interaction.CanDeleteComment(p.Comments, cid, p.UserID, actor); err != nil {
		return nil, err
	}
	p, err = s.repo.PullComment(ctx, id, cid)
	if err != nil {
		return nil, err
	}
	metrics.RecordInteraction("post", "uncomment")
	s.publish(ctx, kafka.EventCommentDeleted, p, actor)
	return s.view(ctx, p), nil
}

func (s *service) Delete(ctx context.Context, postID, actorID string) error {
	id, actor, err := ids(postID, actorID)
	if err != nil {
		return err
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := interaction.CanDelete(p.UserID, actor, "post"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, actor); err != nil {
		return err
	}
	s.media.Remove(ctx, p.MediaKey)
	s.publish(ctx, kafka.EventPostDeleted, p, actor)
	return nil
}

// notify never fails the interaction that triggered it.
func (s *service) notify(ctx context.Context, p *Post, actor primitive.ObjectID, kind notification.Kind) {
	if s.notifier == nil {
		return
	}
	postID := p.ID
	if _, err := s.notifier.Create(ctx, p.UserID, actor, kind, notification.Related{PostID: &postID}); err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("post_id", p.ID.Hex()).
			Str("kind", string(kind)).
			Msg("create notification")
	}
}

func (s *service) publish(ctx context.Context, t kafka.EventType, p *Post, actor primitive.ObjectID) {
	s.events.Publish(ctx, kafka.Event{
		Type:     t,
		EntityID: p.ID.Hex(),
		ActorID:  actor.Hex(),
		OwnerID:  p.UserID.Hex(),
		At:       s.now().UTC(),
	})
}

// view populates authors. A directory failure degrades to unknown authors
// so a committed write is still reported as done.
func (s *service) view(ctx context.Context, p *Post) *View {
	authors, err := s.users.Summaries(ctx, p.authorIDs())
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("post_id", p.ID.Hex()).Msg("load post authors")
	}
	v := p.view(authors)
	return &v
}

func ids(postID, actorID string) (primitive.ObjectID, primitive.ObjectID, error) {
	id, err := mongox.ObjectID(postID, "post")
	if err != nil {
		return id, id, err
	}
	actor, err := mongox.ObjectID(actorID, "user")
	return id, actor, err
}

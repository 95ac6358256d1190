package notification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-service/internal/idem"
	"travel-service/internal/live"
	"travel-service/internal/metrics"
	"travel-service/internal/shared/apperr"
	"travel-service/internal/shared/logging"
	"travel-service/internal/shared/mongox"
	"travel-service/internal/user"
)

// Pusher delivers live messages; *live.Hub satisfies it.
type Pusher interface {
	PushTo(userID string, msg live.Message) int
}

// PostImages resolves the image of each related post.
type PostImages interface {
	PostImages(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

type Service interface {
	// Create returns nil, nil when the notification is suppressed.
	Create(ctx context.Context, recipient, actor primitive.ObjectID, kind Kind, rel Related) (*Notification, error)
	List(ctx context.Context, recipientID string) (*ListResult, error)
	MarkRead(ctx context.Context, notificationID, actorID string) error
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

type service struct {
	repo   Repository
	users  user.Directory
	posts  PostImages
	pusher Pusher
	guard  idem.Store
	now    func() time.Time
}

// NewService wires the fan-out. guard may be nil, in which case duplicate
// suppression relies on the store lookup alone.
func NewService(r Repository, users user.Directory, posts PostImages, pusher Pusher, guard idem.Store) Service {
	return &service{repo: r, users: users, posts: posts, pusher: pusher, guard: guard, now: time.Now}
}

func (s *service) Create(ctx context.Context, recipient, actor primitive.ObjectID, kind Kind, rel Related) (*Notification, error) {
	if recipient == actor {
		metrics.NotificationsSuppressed.WithLabelValues("self").Inc()
		return nil, nil
	}
	now := s.now().UTC()

	key := dedupKey(recipient, actor, kind, rel)
	claimed := false
	if s.guard != nil {
		first, err := s.guard.PutNX(ctx, key, DedupWindow)
		switch {
		case err != nil:
			logging.Ctx(ctx).Warn().Err(err).Msg("notification guard unavailable")
		case !first:
			metrics.NotificationsSuppressed.WithLabelValues("duplicate").Inc()
			return nil, nil
		default:
			claimed = true
		}
	}

	dup, err := s.repo.HasRecent(ctx, recipient, actor, kind, rel, now.Add(-DedupWindow))
	if err != nil {
		s.release(ctx, claimed, key)
		return nil, err
	}
	if dup {
		metrics.NotificationsSuppressed.WithLabelValues("duplicate").Inc()
		return nil, nil
	}

	n := &Notification{
		RecipientID: recipient,
		ActorID:     actor,
		Kind:        kind,
		PostID:      rel.PostID,
		CreatedAt:   now,
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		s.release(ctx, claimed, key)
		return nil, err
	}
	metrics.NotificationsCreated.WithLabelValues(string(kind)).Inc()

	views, err := s.views(ctx, []Notification{*n})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("annotate notification for push")
		return n, nil
	}
	s.pusher.PushTo(recipient.Hex(), live.Message{Event: live.EventNotification, Data: views[0]})
	return n, nil
}

// release drops a guard claim when no notification was stored under it.
func (s *service) release(ctx context.Context, claimed bool, key string) {
	if !claimed {
		return
	}
	if err := s.guard.Release(context.WithoutCancel(ctx), key); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("release notification guard")
	}
}

func (s *service) List(ctx context.Context, recipientID string) (*ListResult, error) {
	recipient, err := mongox.ObjectID(recipientID, "user")
	if err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, recipient, ListLimit)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, recipient)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	groups := make(map[string][]View)
	for _, v := range views {
		g := Group(now, v.CreatedAt)
		groups[g] = append(groups[g], v)
	}
	return &ListResult{UnreadCount: unread, Groups: groups, Notifications: views}, nil
}

func (s *service) MarkRead(ctx context.Context, notificationID, actorID string) error {
	id, err := mongox.ObjectID(notificationID, "notification")
	if err != nil {
		return err
	}
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID.Hex() != actorID {
		return apperr.Forbidden("not authorized to modify this notification")
	}
	if n.Read {
		return nil
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *service) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	recipient, err := mongox.ObjectID(recipientID, "user")
	if err != nil {
		return 0, err
	}
	return s.repo.MarkAllRead(ctx, recipient)
}

func (s *service) views(ctx context.Context, items []Notification) ([]View, error) {
	actors := make([]primitive.ObjectID, 0, len(items))
	var posts []primitive.ObjectID
	for _, n := range items {
		actors = append(actors, n.ActorID)
		if n.PostID != nil {
			posts = append(posts, *n.PostID)
		}
	}
	summaries, err := s.users.Summaries(ctx, actors)
	if err != nil {
		return nil, err
	}
	images := map[primitive.ObjectID]string{}
	if len(posts) > 0 {
		if images, err = s.posts.PostImages(ctx, posts); err != nil {
			return nil, err
		}
	}

	out := make([]View, 0, len(items))
	for _, n := range items {
		v := View{
			ID:          n.ID.Hex(),
			RecipientID: n.RecipientID.Hex(),
			Kind:        n.Kind,
			Actor:       summaries[n.ActorID],
			Read:        n.Read,
			CreatedAt:   n.CreatedAt,
		}
		if n.PostID != nil {
			v.PostID = n.PostID.Hex()
			v.PostImage = images[*n.PostID]
		}
		out = append(out, v)
	}
	return out, nil
}

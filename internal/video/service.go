package video

import (
	"context"
	"math"
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

// Media resolves uploaded files; media.Service satisfies it.
type Media interface {
	Resolve(ctx context.Context, ownerID, prefix, value string) (u, key string, err error)
	Remove(ctx context.Context, key string)
}

type Service interface {
	Create(ctx context.Context, actorID string, req CreateRequest) (*View, error)
	List(ctx context.Context, limit, offset int) ([]View, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]View, error)
	ToggleLike(ctx context.Context, videoID, actorID string) (*View, error)
	AddComment(ctx context.Context, videoID, actorID, text string) (*View, error)
	DeleteComment(ctx context.Context, videoID, commentID, actorID string) (*View, error)
	// IncrementViews counts a view; actorID may be empty for anonymous viewers.
	IncrementViews(ctx context.Context, videoID, actorID string) (*View, error)
	Delete(ctx context.Context, videoID, actorID string) error
}

type service struct {
	repo   Repository
	users  user.Directory
	media  Media
	events kafka.Publisher
	now    func() time.Time
}

func NewService(r Repository, users user.Directory, m Media, events kafka.Publisher) Service {
	if events == nil {
		events = kafka.Noop{}
	}
	return &service{repo: r, users: users, media: m, events: events, now: time.Now}
}

// bareVideo wraps a raw base64 payload, as older clients send it, into a data URI.
func bareVideo(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "data:") || strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		return v
	}
	return "data:video/mp4;base64," + v
}

func (s *service) Create(ctx context.Context, actorID string, req CreateRequest) (*View, error) {
	actor, err := mongox.ObjectID(actorID, "user")
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	duration := int(math.Round(req.Duration))
	if duration <= 0 {
		return nil, apperr.Validation("duration must be positive")
	}
	if req.Location == nil || strings.TrimSpace(req.Location.Name) == "" || req.Location.Coordinates == nil {
		return nil, apperr.Validation("location with name and coordinates is required")
	}

	videoURL, videoKey, err := s.media.Resolve(ctx, actorID, "videos", bareVideo(req.Video))
	if err != nil {
		return nil, err
	}
	thumb, thumbKey, err := s.media.Resolve(ctx, actorID, "thumbnails", req.Thumbnail)
	if err != nil {
		s.media.Remove(ctx, videoKey)
		return nil, err
	}

	now := s.now().UTC()
	v := &Video{
		UserID:       actor,
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		VideoURL:     videoURL,
		Thumbnail:    thumb,
		MediaKey:     videoKey,
		ThumbnailKey: thumbKey,
		Duration:     duration,
		Likes:        []primitive.ObjectID{},
		Comments:     []interaction.Comment{},
		Location: interaction.Location{
			Name:        strings.TrimSpace(req.Location.Name),
			Coordinates: *req.Location.Coordinates,
		},
		Weather:   interaction.DefaultWeather(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Weather != nil {
		v.Weather = *req.Weather
	}
	if err := s.repo.Insert(ctx, v); err != nil {
		s.removeMedia(ctx, v)
		return nil, err
	}
	s.publish(ctx, kafka.EventVideoCreated, v, actor.Hex())
	return s.view(ctx, v), nil
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
	videos, err := s.repo.List(ctx, owner, limit, offset)
	if err != nil {
		return nil, err
	}
	var ids []primitive.ObjectID
	for i := range videos {
		ids = append(ids, videos[i].authorIDs()...)
	}
	authors, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(videos))
	for i := range videos {
		out = append(out, videos[i].view(authors))
	}
	return out, nil
}

func (s *service) ToggleLike(ctx context.Context, videoID, actorID string) (*View, error) {
	id, actor, err := ids(videoID, actorID)
	if err != nil {
		return nil, err
	}
	v, err := s.repo.ToggleLike(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if interaction.Contains(v.Likes, actor) {
		metrics.RecordInteraction("video", "like")
		s.publish(ctx, kafka.EventVideoLiked, v, actorID)
	} else {
		metrics.RecordInteraction("video", "unlike")
	}
	return s.view(ctx, v), nil
}

func (s *service) AddComment(ctx context.Context, videoID, actorID, text string) (*View, error) {
	id, actor, err := ids(videoID, actorID)
	if err != nil {
		return nil, err
	}
	c, err := interaction.NewComment(actor, text, MaxComment, s.now())
	if err != nil {
		return nil, err
	}
	v, err := s.repo.PushComment(ctx, id, c)
	if err != nil {
		return nil, err
	}
	metrics.RecordInteraction("video", "comment")
	s.publish(ctx, kafka.EventCommentAdded, v, actorID)
	return s.view(ctx, v), nil
}

func (s *service) DeleteComment(ctx context.Context, videoID, commentID, actorID string) (*View, error) {
	id, actor, err := ids(videoID, actorID)
	if err != nil {
		return nil, err
	}
	cid, err := mongox.ObjectID(commentID, "comment")
	if err != nil {
		return nil, err
	}
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := interaction.CanDeleteComment(v.Comments, cid, v.UserID, actor); err != nil {
		return nil, err
	}
	v, err = s.repo.PullComment(ctx, id, cid)
	if err != nil {
		return nil, err
	}
	metrics.RecordInteraction("video", "uncomment")
	s.publish(ctx, kafka.EventCommentDeleted, v, actorID)
	return s.view(ctx, v), nil
}

func (s *service) IncrementViews(ctx context.Context, videoID, actorID string) (*View, error) {
	id, err := mongox.ObjectID(videoID, "video")
	if err != nil {
		return nil, err
	}
	v, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics.RecordInteraction("video", "view")
	s.publish(ctx, kafka.EventVideoViewed, v, actorID)
	return s.view(ctx, v), nil
}

func (s *service) Delete(ctx context.Context, videoID, actorID string) error {
	id, actor, err := ids(videoID, actorID)
	if err != nil {
		return err
	}
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := interaction.CanDelete(v.UserID, actor, "video"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, actor); err != nil {
		return err
	}
	s.removeMedia(ctx, v)
	s.publish(ctx, kafka.EventVideoDeleted, v, actorID)
	return nil
}

func (s *service) removeMedia(ctx context.Context, v *Video) {
	s.media.Remove(ctx, v.MediaKey)
	s.media.Remove(ctx, v.ThumbnailKey)
}

func (s *service) publish(ctx context.Context, t kafka.EventType, v *Video, actorID string) {
	s.events.Publish(ctx, kafka.Event{
		Type:     t,
		EntityID: v.ID.Hex(),
		ActorID:  actorID,
		OwnerID:  v.UserID.Hex(),
		At:       s.now().UTC(),
	})
}

func (s *service) view(ctx context.Context, v *Video) *View {
	authors, err := s.users.Summaries(ctx, v.authorIDs())
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("video_id", v.ID.Hex()).Msg("load video authors")
	}
	out := v.view(authors)
	return &out
}

func ids(videoID, actorID string) (primitive.ObjectID, primitive.ObjectID, error) {
	id, err := mongox.ObjectID(videoID, "video")
	if err != nil {
		return id, id, err
	}
	actor, err := mongox.ObjectID(actorID, "user")
	return id, actor, err
}

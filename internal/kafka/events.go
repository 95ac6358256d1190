package kafka

import (
	"context"
	"time"

	"travel-service/internal/shared/logging"
)

type EventType string

const (
	EventPostCreated    EventType = "post.created"
	EventPostDeleted    EventType = "post.deleted"
	EventPostLiked      EventType = "post.liked"
	EventPostUnliked    EventType = "post.unliked"
	EventPostSaved      EventType = "post.saved"
	EventPostUnsaved    EventType = "post.unsaved"
	EventGuideCreated   EventType = "guide.created"
	EventGuideDeleted   EventType = "guide.deleted"
	EventGuideLiked     EventType = "guide.liked"
	EventGuideDisliked  EventType = "guide.disliked"
	EventVideoCreated   EventType = "video.created"
	EventVideoDeleted   EventType = "video.deleted"
	EventVideoLiked     EventType = "video.liked"
	EventVideoViewed    EventType = "video.viewed"
	EventCommentAdded   EventType = "comment.added"
	EventCommentDeleted EventType = "comment.deleted"
	EventUserRegistered EventType = "user.registered"
)

// Event is the domain event published after a successful write.
type Event struct {
	Type     EventType `json:"type"`
	EntityID string    `json:"entityId"`
	ActorID  string    `json:"actorId,omitempty"`
	OwnerID  string    `json:"ownerId,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher is what domain services depend on. Publish errors never fail
// the request that produced the event.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
	Close() error
}

type writerPublisher struct{ w *Writer }

// NewPublisher returns a Kafka-backed publisher, or a no-op one when no
// brokers are configured.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return Noop{}
	}
	return &writerPublisher{w: NewWriter(brokers, topic)}
}

func (p *writerPublisher) Publish(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if err := p.w.WriteJSON(ctx, ev.EntityID, ev); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event", string(ev.Type)).Msg("publish event")
	}
}

func (p *writerPublisher) Close() error { return p.w.Close() }

type Noop struct{}

func (Noop) Publish(context.Context, Event) {}
func (Noop) Close() error                   { return nil }

package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-service/internal/user"
)

type Kind string

const (
	KindLike    Kind = "like"
	KindComment Kind = "comment"
	KindFollow  Kind = "follow"
	KindMention Kind = "mention"
)

// DedupWindow is how long an identical notification is suppressed.
const DedupWindow = 60 * time.Minute

const ListLimit = 20

type Notification struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID  `bson:"recipientId" json:"recipientId"`
	ActorID     primitive.ObjectID  `bson:"actorId" json:"actorId"`
	Kind        Kind                `bson:"kind" json:"kind"`
	PostID      *primitive.ObjectID `bson:"postId,omitempty" json:"postId,omitempty"`
	Read        bool                `bson:"read" json:"read"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// Related points at the entity the notification is about.
type Related struct {
	PostID *primitive.ObjectID
}

// View is a notification annotated with the actor and the related post image.
type View struct {
	ID          string       `json:"id"`
	RecipientID string       `json:"userId"`
	Kind        Kind         `json:"type"`
	Actor       user.Summary `json:"triggeredBy"`
	PostID      string       `json:"postId,omitempty"`
	PostImage   string       `json:"postImage,omitempty"`
	Read        bool         `json:"read"`
	CreatedAt   time.Time    `json:"createdAt"`
}

const (
	GroupToday     = "Today"
	GroupYesterday = "Yesterday"
	GroupThisWeek  = "This Week"
	GroupEarlier   = "Earlier"
)

type ListResult struct {
	UnreadCount   int64             `json:"unreadCount"`
	Groups        map[string][]View `json:"groups"`
	Notifications []View            `json:"notifications"`
}

// Group buckets t relative to now by calendar day in now's location: same
// day, previous day, within the last seven days, or earlier.
func Group(now, t time.Time) string {
	t = t.In(now.Location())
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	if ty == ny && tm == nm && td == nd {
		return GroupToday
	}
	yy, ym, yd := now.AddDate(0, 0, -1).Date()
	if ty == yy && tm == ym && td == yd {
		return GroupYesterday
	}
	if now.Sub(t) < 7*24*time.Hour {
		return GroupThisWeek
	}
	return GroupEarlier
}

func dedupKey(recipient, actor primitive.ObjectID, kind Kind, rel Related) string {
	post := "-"
	if rel.PostID != nil {
		post = rel.PostID.Hex()
	}
	return "notif:" + recipient.Hex() + ":" + actor.Hex() + ":" + string(kind) + ":" + post
}

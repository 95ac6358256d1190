// Package interaction holds the rules shared by posts, guides and videos:
// set toggles with their counters, comments, and who may delete what. The
// MongoDB repositories apply the same rules as atomic pipeline updates; the
// functions here are the in-process form used by services and test stores.
package interaction

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-service/internal/shared/apperr"
	"travel-service/internal/user"
)

func Contains(set []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range set {
		if x == id {
			return true
		}
	}
	return false
}

// Remove returns set without id, keeping order.
func Remove(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(set))
	for _, x := range set {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// Toggle removes id when present and appends it otherwise. added reports
// which happened.
func Toggle(set []primitive.ObjectID, id primitive.ObjectID) (out []primitive.ObjectID, added bool) {
	if Contains(set, id) {
		return Remove(set, id), false
	}
	return append(append(make([]primitive.ObjectID, 0, len(set)+1), set...), id), true
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"-"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// CommentView is a comment with its author display data.
type CommentView struct {
	ID        string       `json:"id"`
	Author    user.Summary `json:"userId"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"createdAt"`
}

// NewComment trims text and rejects empty or over-long comments. maxLen <= 0
// means unbounded.
func NewComment(actor primitive.ObjectID, text string, maxLen int, now time.Time) (Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Comment{}, apperr.Validation("comment text is required")
	}
	if maxLen > 0 && utf8.RuneCountInString(text) > maxLen {
		return Comment{}, apperr.Validation("comment text must be at most %d characters", maxLen)
	}
	return Comment{ID: primitive.NewObjectID(), UserID: actor, Text: text, CreatedAt: now.UTC()}, nil
}

func FindComment(comments []Comment, id primitive.ObjectID) (Comment, bool) {
	for _, c := range comments {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}

// CanDeleteComment allows the comment author and the owner of the commented
// entity.
func CanDeleteComment(comments []Comment, commentID, entityOwner, actor primitive.ObjectID) error {
	c, ok := FindComment(comments, commentID)
	if !ok {
		return apperr.NotFound("comment not found")
	}
	if c.UserID != actor && entityOwner != actor {
		return apperr.Forbidden("not authorized to delete this comment")
	}
	return nil
}

// CanDelete allows only the owner to delete an entity.
func CanDelete(owner, actor primitive.ObjectID, entity string) error {
	if owner != actor {
		return apperr.Forbidden("not authorized to delete this " + entity)
	}
	return nil
}

// CommentAuthors lists the author ids of comments, for summary lookups.
func CommentAuthors(comments []Comment) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	return ids
}

func CommentViews(comments []Comment, authors map[primitive.ObjectID]user.Summary) []CommentView {
	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		a, ok := authors[c.UserID]
		if !ok {
			a = user.Unknown(c.UserID)
		}
		out = append(out, CommentView{ID: c.ID.Hex(), Author: a, Text: c.Text, CreatedAt: c.CreatedAt})
	}
	return out
}

func Hexes(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

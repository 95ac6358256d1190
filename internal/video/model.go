package video

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-service/internal/interaction"
	"travel-service/internal/user"
)

const (
	MaxTitle       = 100
	MaxDescription = 1000
	MaxComment     = 500
)

type Video struct {
	ID           primitive.ObjectID    `bson:"_id,omitempty"`
	UserID       primitive.ObjectID    `bson:"userId"`
	Title        string                `bson:"title"`
	Description  string                `bson:"description"`
	VideoURL     string                `bson:"videoUrl"`
	Thumbnail    string                `bson:"thumbnail"`
	MediaKey     string                `bson:"mediaKey,omitempty"`
	ThumbnailKey string                `bson:"thumbnailKey,omitempty"`
	Duration     int                   `bson:"duration"`
	Views        int64                 `bson:"views"`
	Likes        []primitive.ObjectID  `bson:"likes"`
	LikeCount    int                   `bson:"likeCount"`
	Comments     []interaction.Comment `bson:"comments"`
	Location     interaction.Location  `bson:"location"`
	Weather      interaction.Weather   `bson:"weather"`
	CreatedAt    time.Time             `bson:"createdAt"`
	UpdatedAt    time.Time             `bson:"updatedAt"`
}

func (v *Video) ToggleLike(actor primitive.ObjectID) (added bool) {
	v.Likes, added = interaction.Toggle(v.Likes, actor)
	v.LikeCount = len(v.Likes)
	return added
}

type View struct {
	ID            string                    `json:"id"`
	Author        user.Summary              `json:"userId"`
	Title         string                    `json:"title"`
	Description   string                    `json:"description"`
	VideoURL      string                    `json:"videoUrl"`
	Thumbnail     string                    `json:"thumbnail"`
	Duration      int                       `json:"duration"`
	Views         int64                     `json:"views"`
	Likes         []string                  `json:"likes"`
	LikesCount    int                       `json:"likesCount"`
	Comments      []interaction.CommentView `json:"comments"`
	CommentsCount int                       `json:"commentsCount"`
	Location      interaction.Location      `json:"location"`
	Weather       interaction.Weather       `json:"weather"`
	CreatedAt     time.Time                 `json:"createdAt"`
	UpdatedAt     time.Time                 `json:"updatedAt"`
}

func (v *Video) authorIDs() []primitive.ObjectID {
	return append([]primitive.ObjectID{v.UserID}, interaction.CommentAuthors(v.Comments)...)
}

func (v *Video) view(authors map[primitive.ObjectID]user.Summary) View {
	a, ok := authors[v.UserID]
	if !ok {
		a = user.Unknown(v.UserID)
	}
	return View{
		ID:            v.ID.Hex(),
		Author:        a,
		Title:         v.Title,
		Description:   v.Description,
		VideoURL:      v.VideoURL,
		Thumbnail:     v.Thumbnail,
		Duration:      v.Duration,
		Views:         v.Views,
		Likes:         interaction.Hexes(v.Likes),
		LikesCount:    len(v.Likes),
		Comments:      interaction.CommentViews(v.Comments, authors),
		CommentsCount: len(v.Comments),
		Location:      v.Location,
		Weather:       v.Weather,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

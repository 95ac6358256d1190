package post

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-service/internal/interaction"
	"travel-service/internal/user"
)

type Post struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty"`
	UserID      primitive.ObjectID    `bson:"userId"`
	Image       string                `bson:"image"`
	MediaKey    string                `bson:"mediaKey,omitempty"`
	Location    interaction.Location  `bson:"location"`
	Weather     interaction.Weather   `bson:"weather"`
	Description string                `bson:"description"`
	TravelTips  []string              `bson:"travelTips"`
	Likes       []primitive.ObjectID  `bson:"likes"`
	LikeCount   int                   `bson:"likeCount"`
	SavedBy     []primitive.ObjectID  `bson:"savedBy"`
	Comments    []interaction.Comment `bson:"comments"`
	CreatedAt   time.Time             `bson:"createdAt"`
	UpdatedAt   time.Time             `bson:"updatedAt"`
}

// ToggleLike mirrors the repository pipeline: the actor leaves or joins the
// likers and LikeCount follows the set size.
func (p *Post) ToggleLike(actor primitive.ObjectID) (added bool) {
	p.Likes, added = interaction.Toggle(p.Likes, actor)
	p.LikeCount = len(p.Likes)
	return added
}

func (p *Post) ToggleSave(actor primitive.ObjectID) (added bool) {
	p.SavedBy, added = interaction.Toggle(p.SavedBy, actor)
	return added
}

// View is a post as returned to clients, with the author and comment authors
// populated.
type View struct {
	ID          string                    `json:"id"`
	Author      user.Summary              `json:"userId"`
	Image       string                    `json:"image"`
	Location    interaction.Location      `json:"location"`
	Weather     interaction.Weather       `json:"weather"`
	Description string                    `json:"description"`
	TravelTips  []string                  `json:"travelTips"`
	Likes       []string                  `json:"likes"`
	LikeCount   int                       `json:"likeCount"`
	SavedBy     []string                  `json:"savedBy"`
	Comments    []interaction.CommentView `json:"comments"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
}

func (p *Post) authorIDs() []primitive.ObjectID {
	return append([]primitive.ObjectID{p.UserID}, interaction.CommentAuthors(p.Comments)...)
}

func (p *Post) view(authors map[primitive.ObjectID]user.Summary) View {
	a, ok := authors[p.UserID]
	if !ok {
		a = user.Unknown(p.UserID)
	}
	tips := p.TravelTips
	if tips == nil {
		tips = []string{}
	}
	return View{
		ID:          p.ID.Hex(),
		Author:      a,
		Image:       p.Image,
		Location:    p.Location,
		Weather:     p.Weather,
		Description: p.Description,
		TravelTips:  tips,
		Likes:       interaction.Hexes(p.Likes),
		LikeCount:   p.LikeCount,
		SavedBy:     interaction.Hexes(p.SavedBy),
		Comments:    interaction.CommentViews(p.Comments, authors),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

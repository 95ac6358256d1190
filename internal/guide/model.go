package guide

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-service/internal/interaction"
	"travel-service/internal/user"
)

const DefaultCategory = "Other"

type Guide struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	UserID       primitive.ObjectID   `bson:"userId"`
	Text         string               `bson:"text"`
	Location     string               `bson:"location"`
	LocationNote string               `bson:"locationNote"`
	Category     string               `bson:"category"`
	Tags         []string             `bson:"tags"`
	Likes        int                  `bson:"likes"`
	Dislikes     int                  `bson:"dislikes"`
	LikedBy      []primitive.ObjectID `bson:"likedBy"`
	DislikedBy   []primitive.ObjectID `bson:"dislikedBy"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

// ToggleLike removes the actor's like, or adds it and drops any dislike.
func (g *Guide) ToggleLike(actor primitive.ObjectID) (added bool) {
	g.LikedBy, g.DislikedBy, added = toggleExclusive(g.LikedBy, g.DislikedBy, actor)
	g.recount()
	return added
}

// ToggleDislike mirrors ToggleLike.
func (g *Guide) ToggleDislike(actor primitive.ObjectID) (added bool) {
	g.DislikedBy, g.LikedBy, added = toggleExclusive(g.DislikedBy, g.LikedBy, actor)
	g.recount()
	return added
}

func (g *Guide) recount() {
	g.Likes = len(g.LikedBy)
	g.Dislikes = len(g.DislikedBy)
}

func toggleExclusive(set, opposite []primitive.ObjectID, actor primitive.ObjectID) ([]primitive.ObjectID, []primitive.ObjectID, bool) {
	set, added := interaction.Toggle(set, actor)
	if added {
		opposite = interaction.Remove(opposite, actor)
	}
	return set, opposite, added
}

// View is the guide shape clients render: author name and image are inlined.
type View struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Text         string    `json:"text"`
	Location     string    `json:"location"`
	LocationNote string    `json:"locationNote"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	Username     string    `json:"username"`
	UserImage    string    `json:"userImage"`
	Likes        int       `json:"likes"`
	Dislikes     int       `json:"dislikes"`
	LikedBy      []string  `json:"likedBy"`
	DislikedBy   []string  `json:"dislikedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (g *Guide) view(author user.Summary) View {
	tags := g.Tags
	if tags == nil {
		tags = []string{}
	}
	return View{
		ID:           g.ID.Hex(),
		UserID:       g.UserID.Hex(),
		Text:         g.Text,
		Location:     g.Location,
		LocationNote: g.LocationNote,
		Category:     g.Category,
		Tags:         tags,
		Username:     author.Username,
		UserImage:    author.ProfileImage,
		Likes:        g.Likes,
		Dislikes:     g.Dislikes,
		LikedBy:      interaction.Hexes(g.LikedBy),
		DislikedBy:   interaction.Hexes(g.DislikedBy),
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

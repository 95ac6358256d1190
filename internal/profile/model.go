package profile

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-service/internal/user"
)

type Profile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Bio         string             `bson:"bio" json:"bio"`
	Location    string             `bson:"location" json:"location"`
	SocialLinks map[string]string  `bson:"socialLinks" json:"socialLinks"`
	Interests   []string           `bson:"interests" json:"interests"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Stats are aggregated from the content collections on every read.
type Stats struct {
	TotalPosts  int64 `json:"totalPosts"`
	TotalGuides int64 `json:"totalGuides"`
	TotalVideos int64 `json:"totalVideos"`
	TotalLikes  int64 `json:"totalLikes"`
}

type UserView struct {
	ID           string           `json:"id"`
	FullName     string           `json:"fullName"`
	Username     string           `json:"username"`
	ProfileImage string           `json:"profileImage"`
	AccountType  user.AccountType `json:"accountType"`
}

func userView(u *user.User) UserView {
	return UserView{
		ID:           u.ID.Hex(),
		FullName:     u.FullName,
		Username:     u.Username,
		ProfileImage: u.ProfileImage,
		AccountType:  u.AccountType,
	}
}

type View struct {
	Profile
	User  UserView `json:"user"`
	Stats Stats    `json:"stats"`
}

// Update carries the optional profile fields; nil means unchanged.
type Update struct {
	Bio         *string
	Location    *string
	SocialLinks map[string]string
	Interests   []string
}

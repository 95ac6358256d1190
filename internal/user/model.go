package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AccountType string

const (
	Creator  AccountType = "creator"
	Explorer AccountType = "explorer"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"fullName" json:"fullName"`
	Email        string             `bson:"email" json:"email"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	AccountType  AccountType        `bson:"accountType" json:"accountType"`
	ProfileImage string             `bson:"profileImage" json:"profileImage"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Summary is the author display data attached to posts, comments and
// notifications.
type Summary struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	ProfileImage string `json:"profileImage"`
}

func (u *User) Summary() Summary {
	return Summary{
		ID:           u.ID.Hex(),
		Username:     u.Username,
		FullName:     u.FullName,
		ProfileImage: u.ProfileImage,
	}
}

// Unknown stands in for authors whose account no longer exists.
func Unknown(id primitive.ObjectID) Summary {
	return Summary{ID: id.Hex(), Username: "unknown"}
}

// Update holds the optional user fields a profile update may change.
type Update struct {
	FullName     *string
	Username     *string
	ProfileImage *string
}

package post

import "travel-service/internal/interaction"

// CreateRequest carries a new post. Image is a URL or a base64 data URI.
type CreateRequest struct {
	Image       string                `json:"image" validate:"required"`
	Location    *interaction.Location `json:"location"`
	Weather     *interaction.Weather  `json:"weather"`
	Description string                `json:"description" validate:"max=2000"`
	TravelTips  []string              `json:"travelTips" validate:"max=20,dive,max=300"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type DeleteResponse struct {
	Message       string `json:"message"`
	DeletedPostID string `json:"deletedPostId"`
}

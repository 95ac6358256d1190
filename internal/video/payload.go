package video

import "travel-service/internal/interaction"

type LocationInput struct {
	Name        string                   `json:"name" validate:"required,max=200"`
	Coordinates *interaction.Coordinates `json:"coordinates" validate:"required"`
}

// CreateRequest carries a new video. Video and Thumbnail are URLs, data URIs
// or, for Video only, a bare base64 MP4 payload.
type CreateRequest struct {
	Title       string               `json:"title" validate:"required,max=100"`
	Description string               `json:"description" validate:"max=1000"`
	Video       string               `json:"video" validate:"required"`
	Thumbnail   string               `json:"thumbnail"`
	Duration    float64              `json:"duration" validate:"gt=0"`
	Location    *LocationInput       `json:"location" validate:"required"`
	Weather     *interaction.Weather `json:"weather"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type DeleteResponse struct {
	Message        string `json:"message"`
	DeletedVideoID string `json:"deletedVideoId"`
}

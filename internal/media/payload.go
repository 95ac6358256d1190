package media

type PresignRequest struct {
	ContentType string `json:"contentType" validate:"required"`
	Prefix      string `json:"prefix" validate:"omitempty,oneof=posts videos thumbnails profiles"`
}

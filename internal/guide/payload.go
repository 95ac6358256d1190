package guide

type CreateRequest struct {
	Text         string   `json:"text" validate:"required,max=500"`
	Location     string   `json:"location" validate:"max=100"`
	LocationNote string   `json:"locationNote" validate:"max=100"`
	Category     string   `json:"category" validate:"max=50"`
	Tags         []string `json:"tags" validate:"max=20,dive,max=50"`
}

type DeleteResponse struct {
	Message        string `json:"message"`
	DeletedGuideID string `json:"deletedGuideId"`
}

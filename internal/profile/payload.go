package profile

type UpdateRequest struct {
	FullName     *string           `json:"fullName" validate:"omitempty,max=100"`
	Username     *string           `json:"username" validate:"omitempty,min=3,max=30"`
	ProfileImage *string           `json:"profileImage"`
	Bio          *string           `json:"bio" validate:"omitempty,max=500"`
	Location     *string           `json:"location" validate:"omitempty,max=100"`
	SocialLinks  map[string]string `json:"socialLinks"`
	Interests    []string          `json:"interests" validate:"omitempty,max=50,dive,max=50"`
}

type UpdateResponse struct {
	User    UserView `json:"user"`
	Profile *Profile `json:"profile"`
}

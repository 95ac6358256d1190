package user

type RegisterRequest struct {
	FullName    string      `json:"fullName" validate:"required,max=100"`
	Email       string      `json:"email" validate:"required,email"`
	Username    string      `json:"username" validate:"required,min=3,max=30"`
	Password    string      `json:"password" validate:"required,min=6"`
	AccountType AccountType `json:"accountType" validate:"required,oneof=creator explorer"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

package auth

// LoginInput is the credential payload for sign-in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput provisions a staff account. Admin only.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=admin staff"`
}

// Tokens is an access/refresh pair delivered to the client as HTTP-only
// cookies.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

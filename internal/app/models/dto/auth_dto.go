package dto

// RegisterRequest creates an account and its profile
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email" example:"ada@campus.edu"`
	Password    string `json:"password" binding:"required,min=8,max=72,password" example:"Passw0rd!"`
	FullName    string `json:"fullName" binding:"required,notblank,max=120" example:"Ada Lovelace"`
	CollegeName string `json:"collegeName" binding:"max=200" example:"Analytical College"`
}

// LoginRequest exchanges credentials for tokens
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ada@campus.edu"`
	Password string `json:"password" binding:"required" example:"Passw0rd!"`
}

// RefreshTokenRequest carries a refresh token for rotation or revocation
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required" example:"3b0f8c3e-8f7c-4d0c-9b8e-6b7d1b0f1f7a"`
}

// TokenResponse is an issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int    `json:"refreshExpiresIn" example:"2592000"`
	TokenType        string `json:"tokenType" example:"Bearer"`
}

// AuthResponse is returned from register and login
type AuthResponse struct {
	User  UserResponse  `json:"user"`
	Token TokenResponse `json:"token"`
}

// UserResponse identifies the authenticated account
type UserResponse struct {
	ID      int64            `json:"id" example:"1"`
	Email   string           `json:"email" example:"ada@campus.edu"`
	Profile *ProfileResponse `json:"profile,omitempty"`
}

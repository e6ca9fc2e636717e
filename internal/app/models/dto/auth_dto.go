package dto

import "github.com/yigit/bandhub/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest creates a pending account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,max=120"`
	Phone    string `json:"phone" binding:"omitempty,max=32"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	Name         string            `json:"name"`
	Phone        *string           `json:"phone,omitempty"`
	Status       models.UserStatus `json:"status"`
	Role         models.Role       `json:"role"`
	LastSignInAt *string           `json:"lastSignInAt,omitempty"`
}

// ToUserResponse converts a user model
func ToUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Phone:  u.Phone,
		Status: u.Status,
		Role:   u.Role,
	}
	if u.LastSignInAt != nil {
		ts := u.LastSignInAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		resp.LastSignInAt = &ts
	}
	return resp
}

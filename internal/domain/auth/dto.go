package auth

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest for POST /auth/register
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returned after login/register
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token TokenResponse `json:"token"`
}

// UserResponse represents user in API response
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Role          string    `json:"role"`
	Credits       float64   `json:"credits"`
	WalletBalance float64   `json:"wallet_balance"`
	CreatedAt     string    `json:"created_at"`
}

// TokenResponse represents the access token in API response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // seconds until access token expires
	TokenType   string `json:"token_type"`
}

// NewUserResponse creates UserResponse from user data
func NewUserResponse(id uuid.UUID, username, role string, credits, wallet float64, createdAt time.Time) UserResponse {
	return UserResponse{
		ID:            id,
		Username:      username,
		Role:          role,
		Credits:       credits,
		WalletBalance: wallet,
		CreatedAt:     createdAt.Format(time.RFC3339),
	}
}

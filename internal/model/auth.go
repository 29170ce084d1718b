package model

import "github.com/google/uuid"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenClaims is what the auth middleware stores in the request context
// after validating an access token.
type TokenClaims struct {
	UserID   uuid.UUID
	Email    string
	UserType string
	ClinicID *uuid.UUID
	RoleID   *uuid.UUID
}

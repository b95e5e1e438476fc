package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload identifying an authenticated user. Token
// issuance normally belongs to the external identity provider; the local
// token service exists so requests carry a user id in development.
type UserClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// LoginResponse is returned after a successful token exchange.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

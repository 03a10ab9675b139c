package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the payload carried by both access and refresh tokens.
// Subject holds the user id.
type AppClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a sign-in or refresh. It is never persisted;
// only the refresh token's fingerprint is stored server-side.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
}

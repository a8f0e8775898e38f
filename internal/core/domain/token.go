package domain

import "time"

// TokenType tags a bearer token with its intended use. A token presented
// for the wrong use is rejected regardless of signature validity.
type TokenType string

const (
	TokenAccess  TokenType = "ACCESS"
	TokenRefresh TokenType = "REFRESH"
)

// TokenClaims is the verified claim set extracted from a bearer token.
type TokenClaims struct {
	Subject   string
	Role      string
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

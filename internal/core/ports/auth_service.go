package ports

import (
	"context"
	"time"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
)

// TokenCodec signs and verifies compact bearer tokens. Implementations are
// stateless; the signing key is fixed at construction.
type TokenCodec interface {
	Issue(subject, role string, typ domain.TokenType, ttl time.Duration) (string, error)
	// Verify checks signature, expiry, and that the embedded type claim
	// equals expected. Every failure mode surfaces as ErrAuthRejected.
	Verify(token string, expected domain.TokenType) (*domain.TokenClaims, error)
}

// LoginResult carries the dual tokens issued on a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Role         string
}

// AuthService implements login and refresh over the user store.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Refresh redeems a refresh token for a new access token. The refresh
	// token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// PasswordHasher abstracts the credential hashing scheme.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext, hash string) bool
}

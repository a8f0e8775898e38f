package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
	"github.com/ibpipeline/pipeline-api/internal/core/ports"
)

// AuthService implements login and refresh. It holds no state of its own;
// identity lives in the user store and in the tokens themselves.
type AuthService struct {
	users      ports.UserRepository
	hasher     ports.PasswordHasher
	codec      ports.TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	codec ports.TokenCodec,
	accessTTL, refreshTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		hasher:     hasher,
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// Login checks the credentials and issues one access and one refresh token
// bound to the user's current role. Unknown user, inactive account, and
// password mismatch are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrAuthRejected
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrAuthRejected
		}
		return nil, err
	}

	if !user.Active || !s.hasher.Matches(password, user.PasswordHash) {
		return nil, domain.ErrAuthRejected
	}

	accessToken, err := s.codec.Issue(user.Username, user.Role, domain.TokenAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.Issue(user.Username, "", domain.TokenRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Str("role", user.Role).Msg("login succeeded")

	return &ports.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Role:         user.Role,
	}, nil
}

// Refresh verifies a refresh token and issues a fresh access token bound
// to the user's current role. The refresh token is not rotated. A user
// deactivated since issuance is rejected even if the token is still valid.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.Verify(refreshToken, domain.TokenRefresh)
	if err != nil {
		return "", domain.ErrAuthRejected
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrAuthRejected
		}
		return "", err
	}
	if !user.Active {
		return "", domain.ErrAuthRejected
	}

	return s.codec.Issue(user.Username, user.Role, domain.TokenAccess, s.accessTTL)
}

package ports

import (
	"context"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
)

// UserService defines the admin-facing account management use cases plus
// the self-service profile lookup.
type UserService interface {
	CreateUser(ctx context.Context, username, email, password, role string) (*domain.User, error)
	UpdateUserStatus(ctx context.Context, id string, active bool) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

package ports

import (
	"context"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
// Save performs a whole-document upsert; each call is atomic on its own
// document, no multi-document transactions are assumed.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

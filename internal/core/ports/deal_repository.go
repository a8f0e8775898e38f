package ports

import (
	"context"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
)

// DealRepository defines persistence operations for deals. Save replaces
// the whole document; concurrent writers race last-write-wins, which the
// service layer accepts.
type DealRepository interface {
	Create(ctx context.Context, deal *domain.Deal) (*domain.Deal, error)
	FindByID(ctx context.Context, id string) (*domain.Deal, error)
	Save(ctx context.Context, deal *domain.Deal) (*domain.Deal, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Deal, error)
}

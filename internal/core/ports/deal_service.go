package ports

import (
	"context"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
)

// CreateDealInput carries all data needed to open a new deal. Any stage
// supplied by the caller is ignored: deals always start at Prospect.
type CreateDealInput struct {
	ClientName string
	DealType   string
	Sector     string
	Summary    string
	AssignedTo string
	// CreatedBy is the authenticated actor, taken from the token subject.
	CreatedBy string
}

// UpdateBasicFieldsInput overwrites the three freely editable fields.
// Empty values are written as-is; validation happens upstream.
type UpdateBasicFieldsInput struct {
	Summary  string
	Sector   string
	DealType string
}

// DealService defines the deal lifecycle use cases. Every mutating
// operation publishes exactly one audit event on success and none on
// failure.
type DealService interface {
	Create(ctx context.Context, input CreateDealInput) (*domain.Deal, error)
	Get(ctx context.Context, id string) (*domain.Deal, error)
	List(ctx context.Context) ([]*domain.Deal, error)
	UpdateBasicFields(ctx context.Context, id string, input UpdateBasicFieldsInput) (*domain.Deal, error)
	UpdateStage(ctx context.Context, id string, stage domain.DealStage) (*domain.Deal, error)
	AddNote(ctx context.Context, id, userID, text string) (*domain.Deal, error)
	UpdateDealValue(ctx context.Context, id string, value *int64) (*domain.Deal, error)
	Delete(ctx context.Context, id string) error
}

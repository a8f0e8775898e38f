package handler

import (
	"github.com/ibpipeline/pipeline-api/internal/core/domain"
)

// toDealResponse maps a domain deal to its API shape. The deal value is a
// sensitive field: it is stripped from the response unless the caller is
// an admin.
func toDealResponse(deal *domain.Deal, role string) dealResponse {
	notes := make([]dealNoteResponse, 0, len(deal.Notes))
	for _, n := range deal.Notes {
		notes = append(notes, dealNoteResponse{
			UserID:    n.UserID,
			Text:      n.Text,
			Timestamp: n.Timestamp,
		})
	}

	resp := dealResponse{
		ID:           deal.ID,
		ClientName:   deal.ClientName,
		DealType:     deal.DealType,
		Sector:       deal.Sector,
		CurrentStage: string(deal.CurrentStage),
		Summary:      deal.Summary,
		Notes:        notes,
		CreatedBy:    deal.CreatedBy,
		AssignedTo:   deal.AssignedTo,
		CreatedAt:    deal.CreatedAt,
		UpdatedAt:    deal.UpdatedAt,
	}
	if role == domain.RoleAdmin {
		resp.DealValue = deal.DealValue
	}
	return resp
}

package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createDealRequest struct {
	ClientName string `json:"client_name" validate:"required"`
	DealType   string `json:"deal_type"   validate:"required"`
	Sector     string `json:"sector"      validate:"required"`
	Summary    string `json:"summary"`
	AssignedTo string `json:"assigned_to"`
}

// updateDealRequest carries the three freely editable fields. Values are
// written as supplied, including empty strings.
type updateDealRequest struct {
	Summary  string `json:"summary"`
	Sector   string `json:"sector"`
	DealType string `json:"deal_type"`
}

type updateStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

type addNoteRequest struct {
	Note string `json:"note" validate:"required"`
}

type updateValueRequest struct {
	DealValue *int64 `json:"deal_value"`
}

// --- Response types ---

type dealNoteResponse struct {
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type dealResponse struct {
	ID         string `json:"id"`
	ClientName string `json:"client_name"`
	DealType   string `json:"deal_type"`
	Sector     string `json:"sector"`
	// DealValue is present only for admin callers.
	DealValue    *int64             `json:"deal_value,omitempty"`
	CurrentStage string             `json:"current_stage"`
	Summary      string             `json:"summary"`
	Notes        []dealNoteResponse `json:"notes"`
	CreatedBy    string             `json:"created_by"`
	AssignedTo   string             `json:"assigned_to,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type listDealsResponse struct {
	Items []dealResponse `json:"items"`
	Total int            `json:"total"`
}

package domain

import (
	"errors"
	"time"
)

// DealStage represents a named position in the deal pipeline.
type DealStage string

const (
	StageProspect           DealStage = "Prospect"
	StageUnderEvaluation    DealStage = "UnderEvaluation"
	StageTermSheetSubmitted DealStage = "TermSheetSubmitted"
	StageClosed             DealStage = "Closed"
	StageLost               DealStage = "Lost"
)

// stages holds the full pipeline in display order. Transitions are
// unrestricted: any stage is reachable from any other, so unlike status
// graphs elsewhere there is no transition table here — only membership.
var stages = []DealStage{
	StageProspect,
	StageUnderEvaluation,
	StageTermSheetSubmitted,
	StageClosed,
	StageLost,
}

// Valid reports whether s is a known pipeline stage.
func (s DealStage) Valid() bool {
	for _, known := range stages {
		if s == known {
			return true
		}
	}
	return false
}

// Stages returns the pipeline stages in display order.
func Stages() []DealStage {
	out := make([]DealStage, len(stages))
	copy(out, stages)
	return out
}

var ErrDealNotFound = errors.New("deal not found")
var ErrEmptyNote = errors.New("note cannot be empty")
var ErrInvalidDealValue = errors.New("deal value must be zero or positive")
var ErrInvalidStage = errors.New("unknown deal stage")
var ErrForbidden = errors.New("access forbidden")

// DealNote is a single append-only note on a deal. Notes are never edited
// or removed once written.
type DealNote struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	Text      string    `json:"text" bson:"text"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Deal is the core aggregate root tracked through the pipeline.
type Deal struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	ClientName string    `json:"client_name" bson:"client_name"`
	DealType   string    `json:"deal_type" bson:"deal_type"`
	Sector     string    `json:"sector" bson:"sector"`
	// DealValue is sensitive: visible to and mutable by admins only.
	// Nil means the value has never been set.
	DealValue    *int64     `json:"deal_value,omitempty" bson:"deal_value,omitempty"`
	CurrentStage DealStage  `json:"current_stage" bson:"current_stage"`
	Summary      string     `json:"summary" bson:"summary"`
	Notes        []DealNote `json:"notes" bson:"notes"`
	CreatedBy    string     `json:"created_by" bson:"created_by"`
	AssignedTo   string     `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

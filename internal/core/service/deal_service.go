package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
	"github.com/ibpipeline/pipeline-api/internal/core/ports"
)

// noteDetailLimit caps the note text carried in an audit event's details.
// The full text is always stored on the deal itself.
const noteDetailLimit = 50

// DealService drives the deal lifecycle: every mutation goes through the
// repository and, on success, hands exactly one audit event to the
// publisher. Reads emit nothing.
//
// No lock is taken across the read-modify-write cycle; two concurrent
// mutations of the same deal race last-write-wins at the storage layer.
type DealService struct {
	repo      ports.DealRepository
	publisher ports.EventPublisher
	logger    zerolog.Logger
}

func NewDealService(repo ports.DealRepository, publisher ports.EventPublisher, logger zerolog.Logger) *DealService {
	return &DealService{repo: repo, publisher: publisher, logger: logger}
}

// Create opens a new deal. The stage is forced to Prospect regardless of
// caller input.
func (s *DealService) Create(ctx context.Context, input ports.CreateDealInput) (*domain.Deal, error) {
	now := time.Now().UTC()
	deal := &domain.Deal{
		ClientName:   input.ClientName,
		DealType:     input.DealType,
		Sector:       input.Sector,
		Summary:      input.Summary,
		CurrentStage: domain.StageProspect,
		Notes:        []domain.DealNote{},
		CreatedBy:    input.CreatedBy,
		AssignedTo:   input.AssignedTo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, deal)
	if err != nil {
		s.logger.Error().Err(err).Str("client_name", input.ClientName).Msg("failed to create deal")
		return nil, err
	}

	s.emit(created, domain.EventDealCreated, input.CreatedBy,
		fmt.Sprintf("Deal created with stage: %s", created.CurrentStage))

	s.logger.Info().Str("deal_id", created.ID).Str("created_by", input.CreatedBy).Msg("deal created")
	return created, nil
}

func (s *DealService) Get(ctx context.Context, id string) (*domain.Deal, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DealService) List(ctx context.Context) ([]*domain.Deal, error) {
	return s.repo.List(ctx)
}

// UpdateBasicFields overwrites summary, sector, and dealType without
// re-validation; empty values are written as supplied.
func (s *DealService) UpdateBasicFields(ctx context.Context, id string, input ports.UpdateBasicFieldsInput) (*domain.Deal, error) {
	deal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	deal.Summary = input.Summary
	deal.Sector = input.Sector
	deal.DealType = input.DealType
	deal.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Save(ctx, deal)
	if err != nil {
		return nil, err
	}

	s.emit(updated, domain.EventDealUpdated, "",
		"Deal fields updated: summary, sector, dealType")
	return updated, nil
}

// UpdateStage moves the deal to stage unconditionally. The pipeline has no
// legality graph: every stage is reachable from every other.
func (s *DealService) UpdateStage(ctx context.Context, id string, stage domain.DealStage) (*domain.Deal, error) {
	if !stage.Valid() {
		return nil, domain.ErrInvalidStage
	}

	deal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStage := deal.CurrentStage
	deal.CurrentStage = stage
	deal.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Save(ctx, deal)
	if err != nil {
		return nil, err
	}

	s.emit(updated, domain.EventStageUpdated, "",
		fmt.Sprintf("Stage changed from %s to %s", oldStage, stage))
	return updated, nil
}

// AddNote appends a note. The note text is stored in full; the audit
// detail is truncated to noteDetailLimit characters.
func (s *DealService) AddNote(ctx context.Context, id, userID, text string) (*domain.Deal, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyNote
	}

	deal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	deal.Notes = append(deal.Notes, domain.DealNote{
		UserID:    userID,
		Text:      text,
		Timestamp: now,
	})
	deal.UpdatedAt = now

	updated, err := s.repo.Save(ctx, deal)
	if err != nil {
		return nil, err
	}

	s.emit(updated, domain.EventNoteAdded, userID,
		"Note added: "+truncate(text, noteDetailLimit))
	return updated, nil
}

// UpdateDealValue overwrites the sensitive deal value. Nil and negative
// values are rejected; zero is accepted.
func (s *DealService) UpdateDealValue(ctx context.Context, id string, value *int64) (*domain.Deal, error) {
	if value == nil || *value < 0 {
		return nil, domain.ErrInvalidDealValue
	}

	deal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldValue := deal.DealValue
	deal.DealValue = value
	deal.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Save(ctx, deal)
	if err != nil {
		return nil, err
	}

	s.emit(updated, domain.EventValueUpdated, "",
		fmt.Sprintf("Deal value updated from %s to %d", formatValue(oldValue), *value))
	return updated, nil
}

// Delete removes the deal permanently. The deletion event carries the
// deal's last-known client name.
func (s *DealService) Delete(ctx context.Context, id string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrDealNotFound
	}

	deal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.emit(deal, domain.EventDealDeleted, "", "Deal deleted permanently")
	s.logger.Info().Str("deal_id", id).Msg("deal deleted")
	return nil
}

// emit builds the audit event for one accepted mutation and hands it off.
// The handoff never blocks; delivery outcome is the publisher's concern.
func (s *DealService) emit(deal *domain.Deal, typ domain.DealEventType, actorUserID, details string) {
	s.publisher.Publish(domain.DealEvent{
		EventID:     uuid.NewString(),
		EventType:   typ,
		DealID:      deal.ID,
		DealTitle:   deal.ClientName,
		ActorUserID: actorUserID,
		Details:     details,
		Timestamp:   time.Now().UTC(),
	})
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func formatValue(v *int64) string {
	if v == nil {
		return "unset"
	}
	return fmt.Sprintf("%d", *v)
}

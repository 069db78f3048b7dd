package service

import (
	"context"
	"errors"

	"board-sync-api/internal/domain"
	"board-sync-api/internal/dto"
	"board-sync-api/internal/permission"
	"board-sync-api/internal/realtime"
	"board-sync-api/internal/repository"
	"board-sync-api/internal/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LabelService manages board labels and their attachment to cards.
type LabelService interface {
	GetBoardLabels(ctx context.Context, boardID, userID uuid.UUID) ([]*dto.LabelResponse, error)
	GetCardLabels(ctx context.Context, cardID, userID uuid.UUID) ([]*dto.LabelResponse, error)
	AddLabelToCard(ctx context.Context, cardID, userID uuid.UUID, req *dto.AddLabelRequest) (*dto.LabelResponse, error)
	RemoveLabelFromCard(ctx context.Context, cardID, labelID, userID uuid.UUID) error
	UpdateLabel(ctx context.Context, labelID, userID uuid.UUID, req *dto.UpdateLabelRequest) (*dto.LabelResponse, error)
	DeleteLabel(ctx context.Context, labelID, userID uuid.UUID) error
}

type labelServiceImpl struct {
	labelRepo  repository.LabelRepository
	cardRepo   repository.CardRepository
	authorizer Authorizer
	lookups    permission.Lookups
	events     Publisher
	logger     *zap.Logger
}

func NewLabelService(
	labelRepo repository.LabelRepository,
	cardRepo repository.CardRepository,
	authorizer Authorizer,
	events Publisher,
	logger *zap.Logger,
) LabelService {
	return &labelServiceImpl{
		labelRepo:  labelRepo,
		cardRepo:   cardRepo,
		authorizer: authorizer,
		lookups:    permission.Lookups{Cards: cardRepo, Labels: labelRepo},
		events:     events,
		logger:     logger,
	}
}

func (s *labelServiceImpl) GetBoardLabels(ctx context.Context, boardID, userID uuid.UUID) ([]*dto.LabelResponse, error) {
	if _, err := gate(ctx, s.authorizer, permission.ByBoard(boardID), userID, permission.RoleMember); err != nil {
		return nil, err
	}

	labels, err := s.labelRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, internalError("Failed to load labels", err)
	}
	return toLabelResponses(labels), nil
}

func (s *labelServiceImpl) GetCardLabels(ctx context.Context, cardID, userID uuid.UUID) ([]*dto.LabelResponse, error) {
	if _, err := gate(ctx, s.authorizer, s.lookups.ByCard(cardID), userID, permission.RoleMember); err != nil {
		return nil, err
	}

	labels, err := s.labelRepo.FindByCardID(ctx, cardID)
	if err != nil {
		return nil, internalError("Failed to load labels", err)
	}
	return toLabelResponses(labels), nil
}

// AddLabelToCard reuses the board's (name, color) label or creates it, then
// links it to the card. Linking twice leaves a single link.
func (s *labelServiceImpl) AddLabelToCard(ctx context.Context, cardID, userID uuid.UUID, req *dto.AddLabelRequest) (*dto.LabelResponse, error) {
	target, err := gate(ctx, s.authorizer, s.lookups.ByCard(cardID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	card := target.Card

	label, created, err := s.labelRepo.FindOrCreate(ctx, card.BoardID, req.Name, req.Color)
	if err != nil {
		return nil, internalError("Failed to create label", err)
	}
	if _, err := s.labelRepo.AttachToCard(ctx, card.ID, label.ID); err != nil {
		return nil, internalError("Failed to attach label", err)
	}

	if created {
		s.logger.Debug("Label created",
			zap.String("board_id", card.BoardID.String()),
			zap.String("label_id", label.ID.String()))
	}
	s.events.Publish(ctx, realtime.NewEvent(realtime.EventLabelAddedToCard, card.BoardID).WithCard(card.ID).WithLabel(label.ID))
	return dto.NewLabelResponse(label), nil
}

// RemoveLabelFromCard succeeds whether or not the label was linked.
func (s *labelServiceImpl) RemoveLabelFromCard(ctx context.Context, cardID, labelID, userID uuid.UUID) error {
	target, err := gate(ctx, s.authorizer, s.lookups.ByCard(cardID), userID, permission.RoleMember)
	if err != nil {
		return err
	}
	card := target.Card

	label, err := s.labelRepo.FindByID(ctx, labelID)
	if err != nil {
		return lookupError(err, "Label")
	}
	if label.BoardID != card.BoardID {
		return response.NewAppError(response.ErrCodeNotFound, "Label not found", "")
	}

	if err := s.labelRepo.DetachFromCard(ctx, card.ID, label.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return internalError("Failed to remove label", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventLabelRemovedFromCard, card.BoardID).WithCard(card.ID).WithLabel(label.ID))
	return nil
}

func (s *labelServiceImpl) UpdateLabel(ctx context.Context, labelID, userID uuid.UUID, req *dto.UpdateLabelRequest) (*dto.LabelResponse, error) {
	target, err := gate(ctx, s.authorizer, s.lookups.ByLabel(labelID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	label := target.Label

	if req.Name != nil {
		label.Name = *req.Name
	}
	if req.Color != nil {
		label.Color = *req.Color
	}
	if err := s.labelRepo.Update(ctx, label); err != nil {
		if isDuplicateKey(err) {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Label already exists", "")
		}
		return nil, internalError("Failed to update label", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventLabelUpdated, label.BoardID).WithLabel(label.ID))
	return dto.NewLabelResponse(label), nil
}

// DeleteLabel requires admin and unlinks the label from every card.
func (s *labelServiceImpl) DeleteLabel(ctx context.Context, labelID, userID uuid.UUID) error {
	target, err := gate(ctx, s.authorizer, s.lookups.ByLabel(labelID), userID, permission.RoleAdmin)
	if err != nil {
		return err
	}
	label := target.Label

	if err := s.labelRepo.Delete(ctx, label.ID); err != nil {
		return lookupError(err, "Label")
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventLabelDeleted, label.BoardID).WithLabel(label.ID))
	return nil
}

func toLabelResponses(labels []*domain.Label) []*dto.LabelResponse {
	responses := make([]*dto.LabelResponse, 0, len(labels))
	for _, l := range labels {
		responses = append(responses, dto.NewLabelResponse(l))
	}
	return responses
}

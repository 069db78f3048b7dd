package service

import (
	"context"
	"errors"

	"board-sync-api/internal/domain"
	"board-sync-api/internal/dto"
	"board-sync-api/internal/ordering"
	"board-sync-api/internal/permission"
	"board-sync-api/internal/realtime"
	"board-sync-api/internal/repository"
	"board-sync-api/internal/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CardService defines the interface for card business logic
type CardService interface {
	GetCards(ctx context.Context, listID, userID uuid.UUID) ([]*dto.CardResponse, error)
	CreateCard(ctx context.Context, listID, userID uuid.UUID, req *dto.CreateCardRequest) (*dto.CardResponse, error)
	GetCard(ctx context.Context, cardID, userID uuid.UUID) (*dto.CardResponse, error)
	UpdateCard(ctx context.Context, cardID, userID uuid.UUID, req *dto.UpdateCardRequest) (*dto.CardResponse, error)
	DeleteCard(ctx context.Context, cardID, userID uuid.UUID) error
	MoveCard(ctx context.Context, cardID, userID uuid.UUID, req *dto.MoveCardRequest) (*dto.CardResponse, error)
	ReorderCards(ctx context.Context, listID, userID uuid.UUID, items []dto.ReorderItem) error
	AddAssignee(ctx context.Context, cardID, userID uuid.UUID, req *dto.AddAssigneeRequest) (*dto.CardResponse, error)
	RemoveAssignee(ctx context.Context, cardID, userID, assigneeID uuid.UUID) error
}

type cardServiceImpl struct {
	cardRepo   repository.CardRepository
	listRepo   repository.ListRepository
	engine     *ordering.Engine
	authorizer Authorizer
	lookups    permission.Lookups
	events     Publisher
	metrics    BusinessMetrics
	logger     *zap.Logger
}

func NewCardService(
	cardRepo repository.CardRepository,
	listRepo repository.ListRepository,
	engine *ordering.Engine,
	authorizer Authorizer,
	events Publisher,
	metrics BusinessMetrics,
	logger *zap.Logger,
) CardService {
	return &cardServiceImpl{
		cardRepo:   cardRepo,
		listRepo:   listRepo,
		engine:     engine,
		authorizer: authorizer,
		lookups:    permission.Lookups{Lists: listRepo, Cards: cardRepo},
		events:     events,
		metrics:    metricsOrNoop(metrics),
		logger:     logger,
	}
}

func (s *cardServiceImpl) GetCards(ctx context.Context, listID, userID uuid.UUID) ([]*dto.CardResponse, error) {
	if _, err := gate(ctx, s.authorizer, s.lookups.ByList(listID), userID, permission.RoleMember); err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.FindByListID(ctx, listID)
	if err != nil {
		return nil, internalError("Failed to load cards", err)
	}

	responses := make([]*dto.CardResponse, 0, len(cards))
	for _, c := range cards {
		responses = append(responses, dto.NewCardResponse(c))
	}
	return responses, nil
}

// CreateCard appends the card unless a position was requested.
func (s *cardServiceImpl) CreateCard(ctx context.Context, listID, userID uuid.UUID, req *dto.CreateCardRequest) (*dto.CardResponse, error) {
	target, err := gate(ctx, s.authorizer, s.lookups.ByList(listID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	list := target.List

	position, err := s.engine.CardPosition(ctx, list.ID, req.Position)
	if err != nil {
		return nil, internalError("Failed to place card", err)
	}

	card := &domain.Card{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Position:    position,
	}
	ordering.SyncCardBoard(card, list)
	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, internalError("Failed to create card", err)
	}

	s.metrics.IncrementCardCreated()
	s.events.Publish(ctx, realtime.NewEvent(realtime.EventCardCreated, card.BoardID).WithList(list.ID).WithCard(card.ID))
	return dto.NewCardResponse(card), nil
}

func (s *cardServiceImpl) GetCard(ctx context.Context, cardID, userID uuid.UUID) (*dto.CardResponse, error) {
	target, err := gate(ctx, s.authorizer, s.lookups.ByCard(cardID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	card := target.Card
	return dto.NewCardResponse(card), nil
}

func (s *cardServiceImpl) UpdateCard(ctx context.Context, cardID, userID uuid.UUID, req *dto.UpdateCardRequest) (*dto.CardResponse, error) {
	target, err := gate(ctx, s.authorizer, s.lookups.ByCard(cardID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	card := target.Card

	if req.Title != nil {
		card.Title = *req.Title
	}
	if req.Description != nil {
		card.Description = req.Description
	}
	if req.DueDate != nil {
		card.DueDate = req.DueDate
	}
	if req.Position != nil {
		card.Position = *req.Position
	}
	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, internalError("Failed to update card", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventCardUpdated, card.BoardID).WithList(card.ListID).WithCard(card.ID))
	return dto.NewCardResponse(card), nil
}

func (s *cardServiceImpl) DeleteCard(ctx context.Context, cardID, userID uuid.UUID) error {
	target, err := gate(ctx, s.authorizer, s.lookups.ByCard(cardID), userID, permission.RoleMember)
	if err != nil {
		return err
	}
	card := target.Card

	if err := s.cardRepo.Delete(ctx, card.ID); err != nil {
		s.logger.Error("Failed to delete card", zap.String("card_id", cardID.String()), zap.Error(err))
		return internalError("Failed to delete card", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventCardDeleted, card.BoardID).WithList(card.ListID).WithCard(card.ID))
	return nil
}

// MoveCard places the card in another list of the same board.
func (s *cardServiceImpl) MoveCard(ctx context.Context, cardID, userID uuid.UUID, req *dto.MoveCardRequest) (*dto.CardResponse, error) {
	target, err := gate(ctx, s.authorizer, s.lookups.ByCard(cardID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	card := target.Card

	dest, err := s.listRepo.FindByID(ctx, req.NewListID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Target list not found", "")
		}
		return nil, internalError("Failed to load list", err)
	}

	position := *req.NewPosition
	fromList := card.ListID
	if err := s.engine.MoveCard(ctx, card, dest, position); err != nil {
		return nil, passThrough(err, "Failed to move card")
	}

	s.metrics.IncrementCardMoved()
	s.events.Publish(ctx, realtime.NewEvent(realtime.EventCardMoved, card.BoardID).
		WithList(fromList).
		WithCard(card.ID).
		WithMove(dest.ID, card.Position))
	return dto.NewCardResponse(card), nil
}

// ReorderCards rewrites positions of cards that must all sit in listID.
func (s *cardServiceImpl) ReorderCards(ctx context.Context, listID, userID uuid.UUID, items []dto.ReorderItem) error {
	target, err := gate(ctx, s.authorizer, s.lookups.ByList(listID), userID, permission.RoleMember)
	if err != nil {
		return err
	}
	list := target.List

	if err := s.engine.ReorderCards(ctx, list.ID, dto.ToPositionUpdates(items)); err != nil {
		return passThrough(err, "Failed to reorder cards")
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventCardsReordered, list.BoardID).WithList(list.ID))
	return nil
}

// AddAssignee assigns a user who has access to the card's board.
func (s *cardServiceImpl) AddAssignee(ctx context.Context, cardID, userID uuid.UUID, req *dto.AddAssigneeRequest) (*dto.CardResponse, error) {
	target, err := gate(ctx, s.authorizer, s.lookups.ByCard(cardID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	card := target.Card

	if _, err := s.authorizer.Gate(ctx, permission.ByBoard(card.BoardID), req.UserID, permission.RoleMember); err != nil {
		if response.IsCode(err, response.ErrCodeForbidden) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Assignee must be a member of the board", "")
		}
		return nil, passThrough(err, "Failed to check assignee")
	}

	if err := s.cardRepo.AddAssignee(ctx, card.ID, req.UserID); err != nil {
		return nil, internalError("Failed to add assignee", err)
	}

	updated, err := s.cardRepo.FindByID(ctx, card.ID)
	if err != nil {
		return nil, lookupError(err, "Card")
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventCardAssigneeAdded, card.BoardID).WithCard(card.ID).WithUser(req.UserID))
	return dto.NewCardResponse(updated), nil
}

func (s *cardServiceImpl) RemoveAssignee(ctx context.Context, cardID, userID, assigneeID uuid.UUID) error {
	target, err := gate(ctx, s.authorizer, s.lookups.ByCard(cardID), userID, permission.RoleMember)
	if err != nil {
		return err
	}
	card := target.Card

	if err := s.cardRepo.RemoveAssignee(ctx, card.ID, assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Assignee not found", "")
		}
		return internalError("Failed to remove assignee", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventCardAssigneeRemoved, card.BoardID).WithCard(card.ID).WithUser(assigneeID))
	return nil
}

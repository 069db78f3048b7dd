package service

import (
	"context"

	"board-sync-api/internal/domain"
	"board-sync-api/internal/dto"
	"board-sync-api/internal/ordering"
	"board-sync-api/internal/permission"
	"board-sync-api/internal/realtime"
	"board-sync-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListService defines the interface for list business logic
type ListService interface {
	GetLists(ctx context.Context, boardID, userID uuid.UUID) ([]*dto.ListResponse, error)
	CreateList(ctx context.Context, boardID, userID uuid.UUID, req *dto.CreateListRequest) (*dto.ListResponse, error)
	GetList(ctx context.Context, listID, userID uuid.UUID) (*dto.ListResponse, error)
	UpdateList(ctx context.Context, listID, userID uuid.UUID, req *dto.UpdateListRequest) (*dto.ListResponse, error)
	DeleteList(ctx context.Context, listID, userID uuid.UUID) error
	ReorderLists(ctx context.Context, userID uuid.UUID, items []dto.ReorderItem) error
}

type listServiceImpl struct {
	listRepo   repository.ListRepository
	cardRepo   repository.CardRepository
	engine     *ordering.Engine
	authorizer Authorizer
	lookups    permission.Lookups
	events     Publisher
	logger     *zap.Logger
}

func NewListService(
	listRepo repository.ListRepository,
	cardRepo repository.CardRepository,
	engine *ordering.Engine,
	authorizer Authorizer,
	events Publisher,
	logger *zap.Logger,
) ListService {
	return &listServiceImpl{
		listRepo:   listRepo,
		cardRepo:   cardRepo,
		engine:     engine,
		authorizer: authorizer,
		lookups:    permission.Lookups{Lists: listRepo},
		events:     events,
		logger:     logger,
	}
}

func (s *listServiceImpl) GetLists(ctx context.Context, boardID, userID uuid.UUID) ([]*dto.ListResponse, error) {
	if _, err := gate(ctx, s.authorizer, permission.ByBoard(boardID), userID, permission.RoleMember); err != nil {
		return nil, err
	}

	lists, err := s.listRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, internalError("Failed to load lists", err)
	}

	responses := make([]*dto.ListResponse, 0, len(lists))
	for _, l := range lists {
		responses = append(responses, dto.NewListResponse(l))
	}
	return responses, nil
}

// CreateList appends the list unless a position was requested.
func (s *listServiceImpl) CreateList(ctx context.Context, boardID, userID uuid.UUID, req *dto.CreateListRequest) (*dto.ListResponse, error) {
	if _, err := gate(ctx, s.authorizer, permission.ByBoard(boardID), userID, permission.RoleMember); err != nil {
		return nil, err
	}

	position, err := s.engine.ListPosition(ctx, boardID, req.Position)
	if err != nil {
		return nil, internalError("Failed to place list", err)
	}

	list := &domain.List{
		Name:     req.Name,
		Position: position,
		BoardID:  boardID,
	}
	if err := s.listRepo.Create(ctx, list); err != nil {
		return nil, internalError("Failed to create list", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventListCreated, boardID).WithList(list.ID))
	return dto.NewListResponse(list), nil
}

// GetList returns the list with its cards in order.
func (s *listServiceImpl) GetList(ctx context.Context, listID, userID uuid.UUID) (*dto.ListResponse, error) {
	target, err := gate(ctx, s.authorizer, s.lookups.ByList(listID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	list := target.List

	cards, err := s.cardRepo.FindByListID(ctx, list.ID)
	if err != nil {
		return nil, internalError("Failed to load cards", err)
	}

	resp := dto.NewListResponse(list)
	resp.Cards = make([]*dto.CardResponse, 0, len(cards))
	for _, c := range cards {
		resp.Cards = append(resp.Cards, dto.NewCardResponse(c))
	}
	return resp, nil
}

func (s *listServiceImpl) UpdateList(ctx context.Context, listID, userID uuid.UUID, req *dto.UpdateListRequest) (*dto.ListResponse, error) {
	target, err := gate(ctx, s.authorizer, s.lookups.ByList(listID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	list := target.List

	if req.Name != nil {
		list.Name = *req.Name
	}
	if req.Position != nil {
		list.Position = *req.Position
	}
	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, internalError("Failed to update list", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventListUpdated, list.BoardID).WithList(list.ID))
	return dto.NewListResponse(list), nil
}

// DeleteList requires admin and removes the list's cards with it.
func (s *listServiceImpl) DeleteList(ctx context.Context, listID, userID uuid.UUID) error {
	target, err := gate(ctx, s.authorizer, s.lookups.ByList(listID), userID, permission.RoleAdmin)
	if err != nil {
		return err
	}
	list := target.List

	if err := s.listRepo.Delete(ctx, list.ID); err != nil {
		s.logger.Error("Failed to delete list", zap.String("list_id", listID.String()), zap.Error(err))
		return internalError("Failed to delete list", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventListDeleted, list.BoardID).WithList(list.ID))
	return nil
}

// ReorderLists rewrites positions of lists that must share one board.
func (s *listServiceImpl) ReorderLists(ctx context.Context, userID uuid.UUID, items []dto.ReorderItem) error {
	allow := func(ctx context.Context, boardID uuid.UUID) error {
		_, err := s.authorizer.Gate(ctx, permission.ByBoard(boardID), userID, permission.RoleMember)
		return err
	}

	boardID, err := s.engine.ReorderLists(ctx, dto.ToPositionUpdates(items), allow)
	if err != nil {
		return passThrough(err, "Failed to reorder lists")
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventListsReordered, boardID))
	return nil
}

package service

import (
	"context"

	"board-sync-api/internal/domain"
	"board-sync-api/internal/dto"
	"board-sync-api/internal/permission"
	"board-sync-api/internal/realtime"
	"board-sync-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BoardService defines the interface for board business logic
type BoardService interface {
	ListBoards(ctx context.Context, userID uuid.UUID) ([]*dto.BoardResponse, error)
	CreateBoard(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (*dto.BoardResponse, error)
	GetBoard(ctx context.Context, boardID, userID uuid.UUID) (*dto.BoardDetailResponse, error)
	UpdateBoard(ctx context.Context, boardID, userID uuid.UUID, req *dto.UpdateBoardRequest) (*dto.BoardResponse, error)
	DeleteBoard(ctx context.Context, boardID, userID uuid.UUID) error
}

type boardServiceImpl struct {
	boardRepo  repository.BoardRepository
	listRepo   repository.ListRepository
	cardRepo   repository.CardRepository
	labelRepo  repository.LabelRepository
	members    MemberService
	authorizer Authorizer
	events     Publisher
	metrics    BusinessMetrics
	logger     *zap.Logger
}

func NewBoardService(
	boardRepo repository.BoardRepository,
	listRepo repository.ListRepository,
	cardRepo repository.CardRepository,
	labelRepo repository.LabelRepository,
	members MemberService,
	authorizer Authorizer,
	events Publisher,
	metrics BusinessMetrics,
	logger *zap.Logger,
) BoardService {
	return &boardServiceImpl{
		boardRepo:  boardRepo,
		listRepo:   listRepo,
		cardRepo:   cardRepo,
		labelRepo:  labelRepo,
		members:    members,
		authorizer: authorizer,
		events:     events,
		metrics:    metricsOrNoop(metrics),
		logger:     logger,
	}
}

// ListBoards returns boards the user owns or belongs to.
func (s *boardServiceImpl) ListBoards(ctx context.Context, userID uuid.UUID) ([]*dto.BoardResponse, error) {
	boards, err := s.boardRepo.FindAccessibleByUser(ctx, userID)
	if err != nil {
		return nil, internalError("Failed to load boards", err)
	}

	responses := make([]*dto.BoardResponse, 0, len(boards))
	for _, b := range boards {
		responses = append(responses, dto.NewBoardResponse(b))
	}
	return responses, nil
}

func (s *boardServiceImpl) CreateBoard(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (*dto.BoardResponse, error) {
	board := &domain.Board{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	}
	if err := s.boardRepo.Create(ctx, board); err != nil {
		s.logger.Error("Failed to create board", zap.String("owner_id", userID.String()), zap.Error(err))
		return nil, internalError("Failed to create board", err)
	}

	s.metrics.IncrementBoardCreated()
	s.logger.Info("Board created", zap.String("board_id", board.ID.String()))
	return dto.NewBoardResponse(board), nil
}

// GetBoard returns the board with ordered lists and cards, members and labels.
func (s *boardServiceImpl) GetBoard(ctx context.Context, boardID, userID uuid.UUID) (*dto.BoardDetailResponse, error) {
	access, err := gate(ctx, s.authorizer, permission.ByBoard(boardID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	board := access.Board

	lists, err := s.listRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, internalError("Failed to load lists", err)
	}
	listResponses := make([]*dto.ListResponse, 0, len(lists))
	for _, l := range lists {
		cards, err := s.cardRepo.FindByListID(ctx, l.ID)
		if err != nil {
			return nil, internalError("Failed to load cards", err)
		}
		lr := dto.NewListResponse(l)
		lr.Cards = make([]*dto.CardResponse, 0, len(cards))
		for _, c := range cards {
			lr.Cards = append(lr.Cards, dto.NewCardResponse(c))
		}
		listResponses = append(listResponses, lr)
	}

	members, err := s.members.ListMembers(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}

	labels, err := s.labelRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, internalError("Failed to load labels", err)
	}
	labelResponses := make([]*dto.LabelResponse, 0, len(labels))
	for _, l := range labels {
		labelResponses = append(labelResponses, dto.NewLabelResponse(l))
	}

	return &dto.BoardDetailResponse{
		BoardResponse: *dto.NewBoardResponse(board),
		Lists:         listResponses,
		Members:       members,
		Labels:        labelResponses,
	}, nil
}

func (s *boardServiceImpl) UpdateBoard(ctx context.Context, boardID, userID uuid.UUID, req *dto.UpdateBoardRequest) (*dto.BoardResponse, error) {
	access, err := gate(ctx, s.authorizer, permission.ByBoard(boardID), userID, permission.RoleAdmin)
	if err != nil {
		return nil, err
	}
	board := access.Board

	if req.Name != nil {
		board.Name = *req.Name
	}
	if req.Description != nil {
		board.Description = *req.Description
	}
	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, internalError("Failed to update board", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventBoardUpdated, board.ID))
	return dto.NewBoardResponse(board), nil
}

// DeleteBoard is reserved to the owner and cascades to everything on the board.
func (s *boardServiceImpl) DeleteBoard(ctx context.Context, boardID, userID uuid.UUID) error {
	if _, err := gate(ctx, s.authorizer, permission.ByBoard(boardID), userID, permission.RoleOwner); err != nil {
		return err
	}

	if err := s.boardRepo.Delete(ctx, boardID); err != nil {
		s.logger.Error("Failed to delete board", zap.String("board_id", boardID.String()), zap.Error(err))
		return internalError("Failed to delete board", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventBoardDeleted, boardID))
	s.logger.Info("Board deleted", zap.String("board_id", boardID.String()))
	return nil
}

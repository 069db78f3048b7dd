package service

import (
	"context"
	"errors"
	"time"

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

// MemberService manages who has access to a board.
type MemberService interface {
	ListMembers(ctx context.Context, boardID, userID uuid.UUID) ([]*dto.MemberResponse, error)
	AddMember(ctx context.Context, boardID, userID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error)
	RemoveMember(ctx context.Context, boardID, userID, targetID uuid.UUID) error
}

type memberServiceImpl struct {
	memberRepo repository.MemberRepository
	userRepo   repository.UserRepository
	authorizer Authorizer
	events     Publisher
	logger     *zap.Logger
}

func NewMemberService(
	memberRepo repository.MemberRepository,
	userRepo repository.UserRepository,
	authorizer Authorizer,
	events Publisher,
	logger *zap.Logger,
) MemberService {
	return &memberServiceImpl{
		memberRepo: memberRepo,
		userRepo:   userRepo,
		authorizer: authorizer,
		events:     events,
		logger:     logger,
	}
}

// ListMembers returns the owner first, then members in join order.
func (s *memberServiceImpl) ListMembers(ctx context.Context, boardID, userID uuid.UUID) ([]*dto.MemberResponse, error) {
	access, err := gate(ctx, s.authorizer, permission.ByBoard(boardID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	board := access.Board

	members, err := s.memberRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, internalError("Failed to load members", err)
	}

	ids := make([]uuid.UUID, 0, len(members)+1)
	ids = append(ids, board.OwnerID)
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, internalError("Failed to load users", err)
	}
	byID := make(map[uuid.UUID]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	responses := make([]*dto.MemberResponse, 0, len(ids))
	if owner, ok := byID[board.OwnerID]; ok {
		responses = append(responses, newMemberResponse(owner, true, true, board.CreatedAt))
	}
	for _, m := range members {
		u, ok := byID[m.UserID]
		if !ok || m.UserID == board.OwnerID {
			continue
		}
		responses = append(responses, newMemberResponse(u, m.IsAdmin, false, m.CreatedAt))
	}
	return responses, nil
}

// AddMember invites an existing user by username. Requires admin.
func (s *memberServiceImpl) AddMember(ctx context.Context, boardID, userID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	access, err := gate(ctx, s.authorizer, permission.ByBoard(boardID), userID, permission.RoleAdmin)
	if err != nil {
		return nil, err
	}
	board := access.Board

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, lookupError(err, "User")
	}
	if board.IsOwner(user.ID) {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "User already a member", "")
	}

	member := &domain.BoardMember{
		BoardID: boardID,
		UserID:  user.ID,
		IsAdmin: req.IsAdmin,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		if isDuplicateKey(err) {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "User already a member", "")
		}
		return nil, internalError("Failed to add member", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventMemberAdded, boardID).WithUser(user.ID))
	s.logger.Info("Member added",
		zap.String("board_id", boardID.String()),
		zap.String("user_id", user.ID.String()),
		zap.Bool("is_admin", req.IsAdmin))
	return newMemberResponse(user, member.IsAdmin, false, member.CreatedAt), nil
}

// RemoveMember revokes a membership. The owner and the caller cannot be removed.
func (s *memberServiceImpl) RemoveMember(ctx context.Context, boardID, userID, targetID uuid.UUID) error {
	access, err := gate(ctx, s.authorizer, permission.ByBoard(boardID), userID, permission.RoleAdmin)
	if err != nil {
		return err
	}
	board := access.Board

	if targetID == userID {
		return response.NewAppError(response.ErrCodeValidation, "Cannot remove yourself", "")
	}
	if board.IsOwner(targetID) {
		return response.NewAppError(response.ErrCodeValidation, "Cannot remove board owner", "")
	}

	if err := s.memberRepo.Delete(ctx, boardID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Member not found", "")
		}
		return internalError("Failed to remove member", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventMemberRemoved, boardID).WithUser(targetID))
	return nil
}

func newMemberResponse(u *domain.User, isAdmin, isOwner bool, joinedAt time.Time) *dto.MemberResponse {
	return &dto.MemberResponse{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		IsAdmin:  isAdmin,
		IsOwner:  isOwner,
		JoinedAt: joinedAt,
	}
}

package permission

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"board-sync-api/internal/domain"
	"board-sync-api/internal/response"
)

// Role is the minimum standing a caller needs on a board.
type Role int

const (
	RoleMember Role = iota
	RoleAdmin
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	default:
		return "member"
	}
}

type BoardReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error)
}

type MembershipReader interface {
	FindByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMember, error)
}

// Evaluator decides whether a user may act on a board. It never writes.
type Evaluator struct {
	boards  BoardReader
	members MembershipReader
}

func NewEvaluator(boards BoardReader, members MembershipReader) *Evaluator {
	return &Evaluator{boards: boards, members: members}
}

// Authorize allows the owner, and members (admins only when requireAdmin is set).
func (e *Evaluator) Authorize(ctx context.Context, boardID, userID uuid.UUID, requireAdmin bool) error {
	role := RoleMember
	if requireAdmin {
		role = RoleAdmin
	}
	_, err := e.Check(ctx, boardID, userID, role)
	return err
}

// AuthorizeOwner allows only the board owner; admins are refused.
func (e *Evaluator) AuthorizeOwner(ctx context.Context, boardID, userID uuid.UUID) error {
	_, err := e.Check(ctx, boardID, userID, RoleOwner)
	return err
}

// Check authorizes userID for role on boardID and returns the board.
func (e *Evaluator) Check(ctx context.Context, boardID, userID uuid.UUID, role Role) (*domain.Board, error) {
	board, err := e.boards.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	if board.IsOwner(userID) {
		return board, nil
	}
	if role == RoleOwner {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the board owner can perform this action", "")
	}

	member, err := e.members.FindByBoardAndUser(ctx, boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeForbidden, "Access denied", "")
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}

	if role == RoleAdmin && !member.IsAdmin {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Admin access required", "")
	}
	return board, nil
}

// Gate resolves the board that owns a resource, authorizes userID on it and
// returns the board together with every resource the resolver loaded.
func (e *Evaluator) Gate(ctx context.Context, resolve Resolver, userID uuid.UUID, role Role) (*Target, error) {
	target := &Target{}
	if err := resolve(ctx, target); err != nil {
		return nil, err
	}
	board, err := e.Check(ctx, target.BoardID, userID, role)
	if err != nil {
		return nil, err
	}
	target.Board = board
	return target, nil
}

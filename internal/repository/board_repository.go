package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"board-sync-api/internal/domain"
)

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindAccessibleByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error)
	Update(ctx context.Context, board *domain.Board) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type boardRepositoryImpl struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepositoryImpl{db: db}
}

func (r *boardRepositoryImpl) Create(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *boardRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindAccessibleByUser returns owned boards and boards the user is a member of, once each.
func (r *boardRepositoryImpl) FindAccessibleByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	memberBoards := r.db.Model(&domain.BoardMember{}).Select("board_id").Where("user_id = ?", userID)

	var boards []*domain.Board
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? OR id IN (?)", userID, memberBoards).
		Order("created_at ASC, id ASC").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

func (r *boardRepositoryImpl) Update(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).
		Model(board).
		Select("name", "description").
		Updates(board).Error
}

// Delete removes the board and everything that hangs off it.
func (r *boardRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteBoardTree(tx, []uuid.UUID{id})
	})
}

func (r *boardRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Board{}).Count(&count).Error
	return count, err
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"board-sync-api/internal/domain"
)

// MemberRepository defines the interface for board membership data access
type MemberRepository interface {
	Create(ctx context.Context, member *domain.BoardMember) error
	FindByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMember, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMember, error)
	Delete(ctx context.Context, boardID, userID uuid.UUID) error
}

type memberRepositoryImpl struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepositoryImpl{db: db}
}

func (r *memberRepositoryImpl) Create(ctx context.Context, member *domain.BoardMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepositoryImpl) FindByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMember, error) {
	var member domain.BoardMember
	if err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMember, error) {
	var members []*domain.BoardMember
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("created_at ASC, id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Delete removes the membership and the user's card assignments on that board.
func (r *memberRepositoryImpl) Delete(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("board_id = ? AND user_id = ?", boardID, userID).Delete(&domain.BoardMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		boardCards := tx.Model(&domain.Card{}).Select("id").Where("board_id = ?", boardID)
		return tx.Where("user_id = ? AND card_id IN (?)", userID, boardCards).Delete(&domain.CardAssignee{}).Error
	})
}

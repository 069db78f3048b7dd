package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"board-sync-api/internal/domain"
)

// siblingOrder is the display order of lists within a board and cards within a list.
const siblingOrder = "position ASC, created_at ASC, id ASC"

// ListRepository defines the interface for list data access
type ListRepository interface {
	Create(ctx context.Context, list *domain.List) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.List, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.List, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.List, error)
	CountByBoard(ctx context.Context, boardID uuid.UUID) (int64, error)
	Update(ctx context.Context, list *domain.List) error
	UpdatePositions(ctx context.Context, updates []domain.PositionUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type listRepositoryImpl struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepositoryImpl{db: db}
}

func (r *listRepositoryImpl) Create(ctx context.Context, list *domain.List) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *listRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	var list domain.List
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *listRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.List, error) {
	if len(ids) == 0 {
		return []*domain.List{}, nil
	}
	var lists []*domain.List
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *listRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.List, error) {
	var lists []*domain.List
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order(siblingOrder).
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *listRepositoryImpl) CountByBoard(ctx context.Context, boardID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.List{}).Where("board_id = ?", boardID).Count(&count).Error
	return count, err
}

func (r *listRepositoryImpl) Update(ctx context.Context, list *domain.List) error {
	return r.db.WithContext(ctx).
		Model(list).
		Select("name", "position").
		Updates(list).Error
}

// UpdatePositions writes the whole batch in one transaction.
func (r *listRepositoryImpl) UpdatePositions(ctx context.Context, updates []domain.PositionUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyPositions(tx, &domain.List{}, updates)
	})
}

// Delete removes the list and its cards.
func (r *listRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteListTree(tx, []uuid.UUID{id})
	})
}

func applyPositions(tx *gorm.DB, model interface{}, updates []domain.PositionUpdate) error {
	for _, u := range updates {
		result := tx.Model(model).Where("id = ?", u.ID).Update("position", u.Position)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}
